package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/render"
)

func TestMapErrorPayload_NormalisesPaths(t *testing.T) {
	payload := map[string][]string{
		"/cols":             {"must be at least 1"},
		"body.rows":         {"Rows required", " Rows required "},
		"$.colSize":         {"too large"},
		"#/request/rowSize": {"not an integer"},
		"/depth":            {"unknown property"},
		"":                  {"Unscoped form error"},
	}

	mapped := render.MapErrorPayload(payload)

	wantFields := map[string][]string{
		"cols":    {"must be at least 1"},
		"rows":    {"Rows required"},
		"colSize": {"too large"},
		"rowSize": {"not an integer"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Unscoped form error", "unknown property"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldErrors_FromValidationError(t *testing.T) {
	_, err := model.ParseField(model.FieldRows, "zero", model.DefaultLimits())
	verr, ok := err.(*model.ValidationError)
	if !ok {
		t.Fatalf("expected *model.ValidationError, got %T", err)
	}

	got := render.FieldErrors(verr)
	if len(got[model.FieldRows]) == 0 {
		t.Fatalf("expected rows error, got %+v", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged errors mismatch (-want +got):\n%s", diff)
	}
}
