package model

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownField is returned when a field name is not part of GridModel.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrInvalidModel matches every *ValidationError via errors.Is.
	ErrInvalidModel = errors.New("model: invalid grid model")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field level failures.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func newFieldError(field, message string) *ValidationError {
	verr := &ValidationError{}
	verr.Add(field, message)
	return verr
}

// Add appends a failure for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Messages groups the failures by field name, the shape renderers use for
// inline errors.
func (e *ValidationError) Messages() map[string][]string {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e.Fields))
	for _, fe := range e.Fields {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrInvalidModel.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return ErrInvalidModel.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidModel) match validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidModel
}
