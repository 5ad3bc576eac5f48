package domain

import "errors"

// ValidationError is a recoverable, caller-facing failure tied to one field.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Template validation
var (
	ErrEmptyName        = &ValidationError{Field: "name", Code: "EmptyName", Message: "template name is required"}
	ErrEmptyDescription = &ValidationError{Field: "description", Code: "EmptyDescription", Message: "template description is required"}
	ErrInvalidDuration  = &ValidationError{Field: "durationWeeks", Code: "InvalidDuration", Message: "duration must be at least one week"}
	ErrEmptySchedule    = &ValidationError{Field: "schedule", Code: "EmptySchedule", Message: "schedule must contain at least one entry"}
	ErrInvalidKind      = &ValidationError{Field: "kind", Code: "InvalidKind", Message: "template kind must be workout, nutrition or combined"}
	ErrInvalidLevel     = &ValidationError{Field: "difficulty", Code: "InvalidDifficulty", Message: "difficulty must be beginner, intermediate or advanced"}
)

// Entry validation
var (
	ErrEmptyEntryName = &ValidationError{Field: "entry.name", Code: "EmptyEntryName", Message: "entry name is required"}
	ErrNegativeMacro  = &ValidationError{Field: "entry.macros", Code: "NegativeMacro", Message: "macros cannot be negative"}
	ErrNegativeVolume = &ValidationError{Field: "entry.volume", Code: "NegativeVolume", Message: "sets, reps and rest cannot be negative"}
)

// Assignment validation
var (
	ErrTemplateNotPublished = &ValidationError{Field: "templateId", Code: "TemplateNotPublished", Message: "only published templates can be assigned"}
	ErrNoClientSelected     = &ValidationError{Field: "clientId", Code: "NoClientSelected", Message: "select a client first"}
	ErrInvalidProgress      = &ValidationError{Field: "progress", Code: "InvalidProgress", Message: "progress must be between 0 and 100"}
	ErrInvalidStatus        = &ValidationError{Field: "status", Code: "InvalidStatus", Message: "unknown assignment status"}
)

// Schedule grid errors. These describe a caller bug rather than bad user input.
var (
	ErrUnknownDay        = errors.New("unknown weekday")
	ErrUnknownMealSlot   = errors.New("unknown meal slot")
	ErrMealSlotRequired  = errors.New("meal slot is required for nutrition entries")
	ErrEntryKindMismatch = errors.New("entry type does not match template kind")
)

// ValidationErrors flattens err (possibly built with errors.Join) into the
// validation errors it carries, in order.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var out []*ValidationError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, ve)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

// IsValidation reports whether err carries at least one ValidationError.
func IsValidation(err error) bool {
	return len(ValidationErrors(err)) > 0
}
