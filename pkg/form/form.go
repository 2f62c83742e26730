// Package form implements the grid configuration form: one numeric input per
// GridModel field plus a Generate button. The form never mutates the model it
// was given; every accepted edit is reported through Props.OnModelChange.
package form

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-gridgen/pkg/model"
)

// Props configures a Form.
type Props struct {
	// DefaultModel pre-populates the inputs. It must be a valid model.
	DefaultModel model.GridModel
	// IsLoading disables the Generate button while a generation is running.
	IsLoading bool
	// OnModelChange receives the updated model after every accepted edit.
	OnModelChange func(model.GridModel)
	// Limits bounds accepted values. The zero value applies DefaultLimits.
	Limits model.Limits
}

// Form tracks the model as edited through its inputs.
type Form struct {
	mu       sync.Mutex
	props    Props
	limits   model.Limits
	current  model.GridModel
	onChange func(model.GridModel)
}

// New validates the default model and constructs a Form. A nil OnModelChange
// is replaced with a no-op.
func New(props Props) (*Form, error) {
	limits := props.Limits
	if limits == (model.Limits{}) {
		limits = model.DefaultLimits()
	}
	if err := props.DefaultModel.ValidateWithin(limits); err != nil {
		return nil, fmt.Errorf("form: default model: %w", err)
	}

	onChange := props.OnModelChange
	if onChange == nil {
		onChange = func(model.GridModel) {}
	}

	return &Form{
		props:    props,
		limits:   limits,
		current:  props.DefaultModel,
		onChange: onChange,
	}, nil
}

// Model returns the model as edited so far.
func (f *Form) Model() model.GridModel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Loading reports the IsLoading prop.
func (f *Form) Loading() bool {
	return f.props.IsLoading
}

// Edit applies raw input to a single field. Rejected input leaves the model
// untouched and does not notify; accepted input notifies exactly once, even
// when the value is unchanged.
func (f *Form) Edit(field, raw string) error {
	f.mu.Lock()
	next, err := f.edited(f.current, field, raw)
	if err != nil {
		f.mu.Unlock()
		return err
	}
	f.current = next
	f.mu.Unlock()

	f.onChange(next)
	return nil
}

// Apply edits every field present in values whose value differs from the
// current model. All fields are parsed before anything is applied: if one is
// rejected none are, and the error lists every rejected field.
func (f *Form) Apply(values map[string]string) error {
	f.mu.Lock()

	type edit struct {
		field string
		value int
	}
	var (
		edits []edit
		verr  = &model.ValidationError{}
	)
	for _, field := range model.Fields() {
		raw, ok := values[field]
		if !ok {
			continue
		}
		value, err := model.ParseField(field, raw, f.limits)
		if err != nil {
			if !collect(verr, err) {
				f.mu.Unlock()
				return err
			}
			continue
		}
		if current, _ := f.current.Get(field); current != value {
			edits = append(edits, edit{field: field, value: value})
		}
	}
	if len(verr.Fields) > 0 {
		f.mu.Unlock()
		return verr
	}

	candidate := f.current
	for _, e := range edits {
		candidate, _ = candidate.With(e.field, e.value)
	}
	if err := candidate.ValidateWithin(f.limits); err != nil {
		f.mu.Unlock()
		return err
	}

	models := make([]model.GridModel, 0, len(edits))
	for _, e := range edits {
		f.current, _ = f.current.With(e.field, e.value)
		models = append(models, f.current)
	}
	f.mu.Unlock()

	for _, m := range models {
		f.onChange(m)
	}
	return nil
}

func (f *Form) edited(current model.GridModel, field, raw string) (model.GridModel, error) {
	value, err := model.ParseField(field, raw, f.limits)
	if err != nil {
		return current, err
	}
	next, err := current.With(field, value)
	if err != nil {
		return current, err
	}
	if err := next.ValidateWithin(f.limits); err != nil {
		return current, err
	}
	return next, nil
}

func collect(dst *model.ValidationError, err error) bool {
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	dst.Fields = append(dst.Fields, verr.Fields...)
	return true
}
