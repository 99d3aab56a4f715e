package botconsole

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/m-mizutani/goerr/v2"
)

// canonicalIndent decodes a JSON document and writes it back indented by two
// spaces. Objects keep their key order; a repeated key keeps the position of its
// first occurrence and the value of its last.
func canonicalIndent(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeOrdered(dec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode plan object")
	}

	var buf bytes.Buffer
	if err := writeIndented(&buf, v, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type orderedObject = *orderedmap.OrderedMap[string, any]

func decodeOrdered(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := orderedmap.NewOrderedMap[string, any]()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, goerr.New("object key is not a string", goerr.V("key", keyTok))
			}
			value, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := []any{}
		for dec.More() {
			value, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, goerr.New("unexpected delimiter", goerr.V("delim", delim.String()))
}

func writeIndented(buf *bytes.Buffer, v any, indent string) error {
	inner := indent + "  "

	switch x := v.(type) {
	case orderedObject:
		if x.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for el := x.Front(); el != nil; el = el.Next() {
			buf.WriteString(inner)
			if err := writeString(buf, el.Key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeIndented(buf, el.Value, inner); err != nil {
				return err
			}
			if el.Next() != nil {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
		}
		buf.WriteString(indent + "}")

	case []any:
		if len(x) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range x {
			buf.WriteString(inner)
			if err := writeIndented(buf, item, inner); err != nil {
				return err
			}
			if i < len(x)-1 {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
		}
		buf.WriteString(indent + "]")

	case string:
		return writeString(buf, x)
	case json.Number:
		buf.WriteString(canonicalNumber(x))
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case nil:
		buf.WriteString("null")
	default:
		return goerr.New("unexpected JSON value", goerr.V("value", v))
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return goerr.Wrap(err, "failed to encode string")
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// canonicalNumber formats a JSON number in its shortest round-trip form:
// plain decimal between 1e-6 and 1e21, exponent notation outside. A number
// too large for float64 becomes null.
func canonicalNumber(n json.Number) string {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !math.IsInf(f, 0) {
		return string(n)
	}
	if math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
