package botconsole

import "errors"

var (
	// ErrValidation is returned when the task form has one or more invalid fields.
	ErrValidation = errors.New("task form validation failed")

	ErrUnknownField    = errors.New("unknown form field")
	ErrInvalidViewMode = errors.New("invalid plan view mode")
	ErrNoPlan          = errors.New("no plan has been generated")
	ErrControlDisabled = errors.New("execution control is not available in the current state")

	// ErrGenerationInProgress is returned when a plan is requested while another
	// request is still in flight.
	ErrGenerationInProgress = errors.New("plan generation already in progress")

	// ErrMissingAPIKey is a configuration error. It aborts model fallback before any
	// network call is made.
	ErrMissingAPIKey = errors.New("API key not found")

	// ErrAllAttemptsFailed is returned when the model list produced neither a
	// response nor an error.
	ErrAllAttemptsFailed = errors.New("failed to generate robot plan: all model attempts failed")
)
