package botconsole

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ViewMode selects how a plan is rendered.
type ViewMode string

const (
	ViewModeText ViewMode = "text"
	ViewModeJSON ViewMode = "json"
)

func (m ViewMode) Validate() error {
	switch m {
	case ViewModeText, ViewModeJSON:
		return nil
	default:
		return goerr.Wrap(ErrInvalidViewMode, "unsupported view mode", goerr.V("mode", m))
	}
}

const (
	NoPlanMessage        = "No plan yet"
	NoPlanDetailsMessage = "No plan details available"
)

// FormatPlan renders plan for display. responseText is the original model
// output and is shown when the text rendering would otherwise be empty.
//
// In text mode a rawText carried by the plan replaces the structured sections.
// JSON mode always serialises the plan object, rawText included, so the two
// modes can disagree for the same plan.
func FormatPlan(plan Plan, responseText string, mode ViewMode) string {
	if plan == nil {
		return NoPlanMessage
	}

	if mode == ViewModeJSON {
		data, err := plan.MarshalIndent()
		if err != nil {
			return responseText
		}
		return string(data)
	}

	var text string
	switch p := plan.(type) {
	case *StructuredPlan:
		text = formatStructuredPlan(p)
		if p.RawText != "" {
			text = p.RawText
		}
	case *RawPlan:
		text = p.RawText
	}

	if text == "" {
		text = responseText
	}
	if text == "" {
		return NoPlanDetailsMessage
	}
	return text
}

func formatStructuredPlan(p *StructuredPlan) string {
	var b strings.Builder

	writeList := func(title string, items []string, trailer bool) {
		if len(items) == 0 {
			return
		}
		b.WriteString(title + ":\n")
		for i, item := range items {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item)
		}
		if trailer {
			b.WriteString("\n")
		}
	}

	writeList("PRE-EXECUTION CHECKS", p.PreExecutionChecks, true)

	if len(p.Steps) > 0 {
		b.WriteString("EXECUTION STEPS:\n")
		for _, step := range p.Steps {
			fmt.Fprintf(&b, "Step %s: %s\n", step.Step, step.Action)
			fmt.Fprintf(&b, "  %s\n\n", step.Description)
		}
	}

	writeList("SAFETY CONSIDERATIONS", p.SafetyConsiderations, true)
	writeList("ERROR HANDLING", p.ErrorHandling, true)
	writeList("SUCCESS CRITERIA", p.SuccessCriteria, false)

	return b.String()
}
