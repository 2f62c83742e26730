package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical field names, in the order forms render them.
const (
	FieldCols    = "cols"
	FieldRows    = "rows"
	FieldColSize = "colSize"
	FieldRowSize = "rowSize"
)

var fieldOrder = []string{FieldCols, FieldRows, FieldColSize, FieldRowSize}

// GridModel configures the table dimensions (Cols x Rows) and the pixel size
// of each cell (ColSize x RowSize). All four values must be positive.
type GridModel struct {
	Cols    int `json:"cols" yaml:"cols"`
	Rows    int `json:"rows" yaml:"rows"`
	ColSize int `json:"colSize" yaml:"colSize"`
	RowSize int `json:"rowSize" yaml:"rowSize"`
}

// DefaultModel returns the model used when nothing else is configured.
func DefaultModel() GridModel {
	return GridModel{
		Cols:    60,
		Rows:    150,
		ColSize: 36,
		RowSize: 38,
	}
}

// Fields lists the model field names in canonical order.
func Fields() []string {
	out := make([]string, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// IsField reports whether name is one of the GridModel fields.
func IsField(name string) bool {
	for _, field := range fieldOrder {
		if field == name {
			return true
		}
	}
	return false
}

// Get returns the value stored under the named field.
func (m GridModel) Get(field string) (int, error) {
	switch field {
	case FieldCols:
		return m.Cols, nil
	case FieldRows:
		return m.Rows, nil
	case FieldColSize:
		return m.ColSize, nil
	case FieldRowSize:
		return m.RowSize, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// With returns a copy of m with the named field replaced. The receiver is not
// modified and the returned model is not validated.
func (m GridModel) With(field string, value int) (GridModel, error) {
	out := m
	switch field {
	case FieldCols:
		out.Cols = value
	case FieldRows:
		out.Rows = value
	case FieldColSize:
		out.ColSize = value
	case FieldRowSize:
		out.RowSize = value
	default:
		return m, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return out, nil
}

// Values returns the model as a field name -> string map, the shape HTML
// inputs and prompts work with.
func (m GridModel) Values() map[string]string {
	return map[string]string{
		FieldCols:    strconv.Itoa(m.Cols),
		FieldRows:    strconv.Itoa(m.Rows),
		FieldColSize: strconv.Itoa(m.ColSize),
		FieldRowSize: strconv.Itoa(m.RowSize),
	}
}

// Cells returns the number of cells a table generated from m contains.
func (m GridModel) Cells() int {
	return m.Rows * m.Cols
}

// Validate checks the model against DefaultLimits.
func (m GridModel) Validate() error {
	return m.ValidateWithin(DefaultLimits())
}

// ValidateWithin checks every field is a positive integer and that the model
// stays inside the supplied limits. It returns a *ValidationError listing
// every offending field, or nil.
func (m GridModel) ValidateWithin(limits Limits) error {
	verr := &ValidationError{}
	for _, field := range fieldOrder {
		value, _ := m.Get(field)
		if msg := limits.checkField(field, value); msg != "" {
			verr.Add(field, msg)
		}
	}
	if len(verr.Fields) == 0 && limits.MaxCells > 0 && m.Cells() > limits.MaxCells {
		verr.Add(FieldRows, fmt.Sprintf("rows x cols must not exceed %d cells", limits.MaxCells))
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// ParseField converts raw user input into a value for field, applying the
// boundary policy: surrounding whitespace is ignored, anything other than a
// base-10 integer inside the limits is rejected.
func ParseField(field, raw string, limits Limits) (int, error) {
	if !IsField(field) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, newFieldError(field, "value is required")
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, newFieldError(field, "must be a whole number")
	}
	if msg := limits.checkField(field, value); msg != "" {
		return 0, newFieldError(field, msg)
	}
	return value, nil
}

func (m GridModel) String() string {
	return fmt.Sprintf("%dx%d@%dx%dpx", m.Cols, m.Rows, m.ColSize, m.RowSize)
}
