package botconsole

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
)

// Plan is the result of a plan acquisition. It is either a *StructuredPlan
// parsed from a JSON object in the model output, or a *RawPlan holding the
// output as-is.
type Plan interface {
	isPlan()

	// MarshalIndent returns the JSON rendering of the plan object.
	MarshalIndent() ([]byte, error)
}

// Step is one ordered action in a structured plan. Step holds the step number
// as displayed: JSON numbers in their shortest form, strings as written.
type Step struct {
	Step        string `json:"step"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// StructuredPlan is a plan parsed from a JSON object. Known keys are decoded into
// typed fields; the original object is retained so that keys unknown to this
// type survive and JSON rendering reproduces it exactly.
type StructuredPlan struct {
	PreExecutionChecks   []string
	Steps                []Step
	SafetyConsiderations []string
	ErrorHandling        []string
	SuccessCriteria      []string

	// RawText is set when the object itself carried a "rawText" key. It
	// overrides the structured text rendering.
	RawText string

	source json.RawMessage
}

func (*StructuredPlan) isPlan() {}

// Source returns the JSON object the plan was parsed from.
func (p *StructuredPlan) Source() json.RawMessage {
	return p.source
}

// Fields decodes the source object into a generic map.
func (p *StructuredPlan) Fields() (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(p.source, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// MarshalIndent re-encodes the source object in canonical form. Key order is
// kept, a duplicated key keeps its first position with its last value, and
// numbers and strings are normalised.
func (p *StructuredPlan) MarshalIndent() ([]byte, error) {
	return canonicalIndent(p.source)
}

// MarshalJSON emits the original object.
func (p *StructuredPlan) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, p.source); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RawPlan is used when no JSON object could be extracted from the model output.
type RawPlan struct {
	RawText string `json:"rawText"`
}

func (*RawPlan) isPlan() {}

func (p *RawPlan) MarshalIndent() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// jsonObjectPattern matches from the first "{" to the last "}" in the text.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParsePlan extracts a plan from model output. It never fails: text without a
// JSON object, or with one that does not parse, becomes a *RawPlan.
func ParsePlan(text string) Plan {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return &RawPlan{RawText: text}
	}

	plan, err := newStructuredPlan([]byte(match))
	if err != nil {
		return &RawPlan{RawText: text}
	}
	return plan
}

func newStructuredPlan(data []byte) (*StructuredPlan, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	plan := &StructuredPlan{source: append(json.RawMessage(nil), data...)}

	// A key of the wrong type is left out of the typed view but stays in source.
	decodeField(fields, "preExecutionChecks", &plan.PreExecutionChecks)
	plan.Steps = decodeSteps(fields["steps"])
	decodeField(fields, "safetyConsiderations", &plan.SafetyConsiderations)
	decodeField(fields, "errorHandling", &plan.ErrorHandling)
	decodeField(fields, "successCriteria", &plan.SuccessCriteria)
	decodeField(fields, "rawText", &plan.RawText)

	return plan, nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// decodeSteps keeps every object element of a steps array. Fields of an
// unexpected type are left empty instead of dropping the step.
func decodeSteps(raw json.RawMessage) []Step {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	var steps []Step
	for _, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}
		steps = append(steps, Step{
			Step:        scalarText(fields["step"]),
			Action:      scalarText(fields["action"]),
			Description: scalarText(fields["description"]),
		})
	}
	return steps
}

// scalarText renders a JSON string, number or boolean as display text. Other
// values yield "".
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return canonicalNumber(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
