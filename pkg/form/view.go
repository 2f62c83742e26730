package form

import (
	"strconv"

	"github.com/goliatone/go-gridgen/pkg/model"
)

// Label keys used to localise the form. The defaults below apply when no
// translation is available.
const (
	LabelKeyCols     = "grid.fields.cols"
	LabelKeyRows     = "grid.fields.rows"
	LabelKeyColSize  = "grid.fields.colSize"
	LabelKeyRowSize  = "grid.fields.rowSize"
	LabelKeyGenerate = "grid.actions.generate"

	DefaultButtonLabel = "Generate"
)

var defaultLabels = map[string]struct{ key, label string }{
	model.FieldCols:    {LabelKeyCols, "Columns"},
	model.FieldRows:    {LabelKeyRows, "Rows"},
	model.FieldColSize: {LabelKeyColSize, "Column size"},
	model.FieldRowSize: {LabelKeyRowSize, "Row size"},
}

// Field is the render-ready state of one input.
type Field struct {
	Name     string   `json:"name"`
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	LabelKey string   `json:"labelKey"`
	Value    string   `json:"value"`
	Min      int      `json:"min"`
	Max      int      `json:"max,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// View is an immutable snapshot handed to renderers.
type View struct {
	Action         string   `json:"action"`
	Method         string   `json:"method"`
	Fields         []Field  `json:"fields"`
	Loading        bool     `json:"loading"`
	ButtonLabel    string   `json:"buttonLabel"`
	ButtonLabelKey string   `json:"buttonLabelKey"`
	ButtonDisabled bool     `json:"buttonDisabled"`
	Errors         []string `json:"errors,omitempty"`
}

// ViewOptions customise View.
type ViewOptions struct {
	// Action is the URL the form posts to. Defaults to "/generate".
	Action string
	// Values echoes raw submitted input back into the inputs, typically after
	// a rejected submission so the user can correct it.
	Values map[string]string
	// Errors attaches inline messages keyed by field name.
	Errors map[string][]string
	// FormErrors are shown above the inputs.
	FormErrors []string
}

// View snapshots the form for rendering.
func (f *Form) View(opts ViewOptions) View {
	current := f.Model()
	values := current.Values()

	action := opts.Action
	if action == "" {
		action = "/generate"
	}

	fields := make([]Field, 0, len(values))
	for _, name := range model.Fields() {
		value := values[name]
		if raw, ok := opts.Values[name]; ok {
			value = raw
		}
		label := defaultLabels[name]
		fields = append(fields, Field{
			Name:     name,
			ID:       "grid-" + name,
			Label:    label.label,
			LabelKey: label.key,
			Value:    value,
			Min:      1,
			Max:      f.maxFor(name),
			Errors:   append([]string(nil), opts.Errors[name]...),
		})
	}

	return View{
		Action:         action,
		Method:         "post",
		Fields:         fields,
		Loading:        f.props.IsLoading,
		ButtonLabel:    DefaultButtonLabel,
		ButtonLabelKey: LabelKeyGenerate,
		ButtonDisabled: f.props.IsLoading,
		Errors:         append([]string(nil), opts.FormErrors...),
	}
}

func (f *Form) maxFor(field string) int {
	switch field {
	case model.FieldColSize, model.FieldRowSize:
		return f.limits.MaxCellSize
	default:
		return f.limits.MaxCells
	}
}

// FieldValue returns the input value rendered for name.
func (v View) FieldValue(name string) (int, bool) {
	for _, field := range v.Fields {
		if field.Name != name {
			continue
		}
		n, err := strconv.Atoi(field.Value)
		return n, err == nil
	}
	return 0, false
}
