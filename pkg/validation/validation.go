// Package validation checks JSON request bodies against the embedded OpenAPI
// document before they reach the grid container.
package validation

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// ModelSchema is the component name of the GridModel schema.
const ModelSchema = "GridModel"

// Issue represents a validation error with optional location metadata.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Messages groups issue messages by field. Issues without a field are keyed
// by "".
func (r Result) Messages() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// Document returns the raw embedded OpenAPI document.
func Document() []byte {
	out := make([]byte, len(document))
	copy(out, document)
	return out
}

// Validator holds the parsed document.
type Validator struct {
	doc   *openapi3.T
	model *openapi3.Schema
}

// New parses and validates the embedded document.
func New(ctx context.Context) (*Validator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("validation: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validation: invalid document: %w", err)
	}

	ref, ok := doc.Components.Schemas[ModelSchema]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("validation: schema %q missing", ModelSchema)
	}
	return &Validator{doc: doc, model: ref.Value}, nil
}

// Spec exposes the parsed document.
func (v *Validator) Spec() *openapi3.T {
	return v.doc
}

// ValidateModel checks raw against the GridModel schema, reporting every
// violation rather than the first.
func (v *Validator) ValidateModel(ctx context.Context, raw []byte) Result {
	if err := ctx.Err(); err != nil {
		return Result{Issues: []Issue{{Message: err.Error()}}}
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return Result{Issues: []Issue{{Message: "body is not valid JSON"}}}
	}

	err := v.model.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return Result{Valid: true}
	}

	var issues []Issue
	for _, e := range flatten(err) {
		issues = append(issues, issueFromError(e))
	}
	return Result{Issues: issues}
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
	defaultErr       error
)

// ValidateModel validates raw with a Validator built once from the embedded
// document.
func ValidateModel(ctx context.Context, raw []byte) Result {
	defaultOnce.Do(func() {
		defaultValidator, defaultErr = New(context.Background())
	})
	if defaultErr != nil {
		return Result{Issues: []Issue{{Message: defaultErr.Error()}}}
	}
	return defaultValidator.ValidateModel(ctx, raw)
}

func flatten(err error) []error {
	if multi, ok := err.(openapi3.MultiError); ok {
		var out []error
		for _, e := range multi {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

var propertyReason = regexp.MustCompile(`property "([^"]+)" is (?:missing|unsupported)`)

func issueFromError(err error) Issue {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return Issue{Message: strings.TrimSpace(err.Error())}
	}

	pointer := schemaErr.JSONPointer()
	field := strings.Join(pointer, ".")
	if field == "" {
		if m := propertyReason.FindStringSubmatch(schemaErr.Reason); m != nil {
			field = m[1]
			pointer = []string{m[1]}
		}
	}

	path := ""
	if len(pointer) > 0 {
		path = "/" + strings.Join(pointer, "/")
	}
	return Issue{
		Path:    path,
		Field:   field,
		Message: strings.TrimSpace(schemaErr.Reason),
	}
}
