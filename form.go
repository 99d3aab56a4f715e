package botconsole

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Preset is a task category chosen by the operator to seed the plan request.
type Preset string

const (
	PresetWeldPart          Preset = "Weld a Part"
	PresetPickAndPlace      Preset = "Pick and Place"
	PresetQualityInspection Preset = "Quality Inspection"
	PresetCustomTask        Preset = "Custom Task"
)

// Presets returns the fixed set of presets in display order.
func Presets() []Preset {
	return []Preset{
		PresetWeldPart,
		PresetPickAndPlace,
		PresetQualityInspection,
		PresetCustomTask,
	}
}

// Valid reports whether p is one of the four known presets.
func (p Preset) Valid() bool {
	for _, preset := range Presets() {
		if p == preset {
			return true
		}
	}
	return false
}

// Field names a TaskForm field. The values match the JSON keys of TaskForm.
type Field string

const (
	FieldPreset             Field = "preset"
	FieldTargetObject       Field = "targetObject"
	FieldTaskDescription    Field = "taskDescription"
	FieldExpectedOutcome    Field = "expectedOutcome"
	FieldExceptionScenarios Field = "exceptionScenarios"
)

// TaskForm holds the operator's task intent. All fields are free text except
// Preset, which must be one of Presets() to pass validation.
type TaskForm struct {
	Preset             Preset `json:"preset" yaml:"preset"`
	TargetObject       string `json:"targetObject" yaml:"targetObject"`
	TaskDescription    string `json:"taskDescription" yaml:"taskDescription"`
	ExpectedOutcome    string `json:"expectedOutcome" yaml:"expectedOutcome"`
	ExceptionScenarios string `json:"exceptionScenarios" yaml:"exceptionScenarios"`
}

// FieldErrors maps an invalid field to its human-readable message.
type FieldErrors map[Field]string

// Set assigns value to the named field.
func (f *TaskForm) Set(field Field, value string) error {
	switch field {
	case FieldPreset:
		f.Preset = Preset(value)
	case FieldTargetObject:
		f.TargetObject = value
	case FieldTaskDescription:
		f.TaskDescription = value
	case FieldExpectedOutcome:
		f.ExpectedOutcome = value
	case FieldExceptionScenarios:
		f.ExceptionScenarios = value
	default:
		return goerr.Wrap(ErrUnknownField, "failed to set form field", goerr.V("field", field))
	}
	return nil
}

// Validate checks the four required fields. It returns an empty map when the
// form can be submitted.
func (f TaskForm) Validate() FieldErrors {
	errs := FieldErrors{}

	if !f.Preset.Valid() {
		errs[FieldPreset] = "Please select a preset"
	}
	if strings.TrimSpace(f.TargetObject) == "" {
		errs[FieldTargetObject] = "Please describe the target object"
	}
	if strings.TrimSpace(f.TaskDescription) == "" {
		errs[FieldTaskDescription] = "Please describe what the robot should do"
	}
	if strings.TrimSpace(f.ExpectedOutcome) == "" {
		errs[FieldExpectedOutcome] = "Please describe the expected outcome"
	}

	return errs
}
