package botconsole_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/botconsole"
	"github.com/m-mizutani/gt"
)

func TestBuildPrompt(t *testing.T) {
	form := completeForm()
	form.ExceptionScenarios = "wire feed jams <stop & report>"

	prompt := botconsole.BuildPrompt(form)

	gt.S(t, prompt).Contains("- Preset: Weld a Part\n")
	gt.S(t, prompt).Contains("- Target Object: steel bracket\n")
	gt.S(t, prompt).Contains("- Task Description: weld the seam along the bottom edge\n")
	gt.S(t, prompt).Contains("- Expected Outcome: continuous bead without gaps\n")
	// Values are embedded verbatim, without escaping.
	gt.S(t, prompt).Contains("- Exception Scenarios: wire feed jams <stop & report>\n")
	gt.S(t, prompt).Contains(`"preExecutionChecks"`)
	gt.S(t, prompt).Contains(`"successCriteria"`)
	gt.True(t, strings.HasPrefix(prompt, "You are an AI assistant helping to create a robotic task execution plan."))
}

func TestBuildPromptEmptyOptionalField(t *testing.T) {
	prompt := botconsole.BuildPrompt(completeForm())
	gt.S(t, prompt).Contains("- Exception Scenarios: \n")
}
