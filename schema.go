package botconsole

import (
	"bytes"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const planSchemaURL = "plan.schema.json"

// planSchemaJSON describes the object the prompt asks for. It is a
// conformance check only: plans that fail it are still accepted.
const planSchemaJSON = `{
  "type": "object",
  "required": ["preExecutionChecks", "steps", "safetyConsiderations", "errorHandling", "successCriteria"],
  "properties": {
    "preExecutionChecks": {"$ref": "#/$defs/textList"},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["step", "action", "description"],
        "properties": {
          "step": {"type": "integer", "minimum": 1},
          "action": {"type": "string", "minLength": 1},
          "description": {"type": "string"}
        }
      }
    },
    "safetyConsiderations": {"$ref": "#/$defs/textList"},
    "errorHandling": {"$ref": "#/$defs/textList"},
    "successCriteria": {"$ref": "#/$defs/textList"},
    "rawText": {"type": "string"}
  },
  "$defs": {
    "textList": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string"}
    }
  }
}`

var compilePlanSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(planSchemaJSON))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse plan schema")
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(planSchemaURL, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to add plan schema")
	}

	schema, err := c.Compile(planSchemaURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile plan schema")
	}
	return schema, nil
})

// CheckPlan reports whether a structured plan has the shape the prompt asked
// for. A nil error means it conforms.
func CheckPlan(plan *StructuredPlan) error {
	schema, err := compilePlanSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(plan.Source()))
	if err != nil {
		return goerr.Wrap(err, "failed to decode plan")
	}

	if err := schema.Validate(inst); err != nil {
		return goerr.Wrap(err, "plan does not match the expected structure")
	}
	return nil
}
