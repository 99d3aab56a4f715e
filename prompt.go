package botconsole

import (
	"bytes"
	"text/template"
)

const (
	// MaxOutputTokens bounds the size of a generated plan.
	MaxOutputTokens = 1500
	// Temperature is the sampling temperature for plan generation.
	Temperature = 0.7
)

var promptTemplate = template.Must(template.New("plan").Parse(`You are an AI assistant helping to create a robotic task execution plan.
Task Details:
- Preset: {{.Preset}}
- Target Object: {{.TargetObject}}
- Task Description: {{.TaskDescription}}
- Expected Outcome: {{.ExpectedOutcome}}
- Exception Scenarios: {{.ExceptionScenarios}}

Generate a concise, medium-sized step-by-step plan for a robot to learn and execute this skill. Keep the response brief and focused. Include:
1. Pre-execution checks (limit to 3-5 items)
2. Sequential steps with precise actions (limit to 5-8 steps)
3. Safety considerations (limit to 3-4 items)
4. Error handling procedures (limit to 2-3 items)
5. Success criteria (limit to 2-3 items)

IMPORTANT: Keep descriptions brief (1-2 sentences max per item). Provide the response in a structured JSON format that can be executed by a robot control system. Return a JSON object with the following structure:
{
  "preExecutionChecks": ["brief check1", "brief check2"],
  "steps": [
    {"step": 1, "action": "action name", "description": "brief description"},
    ...
  ],
  "safetyConsiderations": ["brief consideration1"],
  "errorHandling": ["brief procedure1"],
  "successCriteria": ["brief criterion1"]
}`))

// BuildPrompt composes the plan request. The form values are embedded verbatim.
func BuildPrompt(form TaskForm) string {
	var buf bytes.Buffer
	// Execute only fails on template or writer errors; neither can happen here.
	_ = promptTemplate.Execute(&buf, form)
	return buf.String()
}
