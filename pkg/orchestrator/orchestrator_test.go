package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-gridgen/pkg/generator"
	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/orchestrator"
	"github.com/goliatone/go-gridgen/pkg/render"
	"github.com/goliatone/go-gridgen/pkg/testsupport"
)

var small = model.GridModel{Cols: 6, Rows: 4, ColSize: 8, RowSize: 9}

func newOrchestrator(t *testing.T, options ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()

	base := []orchestrator.Option{
		orchestrator.WithDefaultModel(small),
		orchestrator.WithSeed(42),
	}
	orch, err := orchestrator.New(append(base, options...)...)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return orch
}

func TestNew_GeneratesInitialTable(t *testing.T) {
	orch := newOrchestrator(t)

	rows, cols := orch.Table().Dimensions()
	if rows != small.Rows || cols != small.Cols {
		t.Fatalf("want %dx%d table, got %dx%d", small.Rows, small.Cols, rows, cols)
	}

	want, err := generator.Generate(small, generator.Seed{Base: 42}, generator.DefaultPalette())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff(want, orch.Table()); diff != "" {
		t.Fatalf("initial table mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_RejectsModelOutsideLimits(t *testing.T) {
	_, err := orchestrator.New(
		orchestrator.WithDefaultModel(model.GridModel{Cols: 50, Rows: 50, ColSize: 1, RowSize: 1}),
		orchestrator.WithLimits(model.Limits{MaxCells: 100, MaxCellSize: 10}),
	)
	if !errors.Is(err, model.ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
}

func TestGenerate_RecolorsEveryCell(t *testing.T) {
	orch := newOrchestrator(t)
	before := orch.Table()

	after, err := orch.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for r := range after.Rows {
		for c := range after.Rows[r] {
			if after.Rows[r][c].Color == before.Rows[r][c].Color {
				t.Fatalf("cell %d,%d kept colour %s", r, c, after.Rows[r][c].Color)
			}
		}
	}
	if diff := cmp.Diff(after, orch.Table()); diff != "" {
		t.Fatalf("stored table mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_CancelledContextKeepsTable(t *testing.T) {
	orch := newOrchestrator(t)
	before := orch.Table()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if diff := cmp.Diff(before, orch.Table()); diff != "" {
		t.Fatalf("cancelled generate replaced the table (-want +got):\n%s", diff)
	}

	next, err := orch.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want, _ := generator.Generate(small, generator.Seed{Base: 42, Generation: 1}, generator.DefaultPalette())
	if diff := cmp.Diff(want, next); diff != "" {
		t.Fatalf("cancelled generate consumed a seed (-want +got):\n%s", diff)
	}
}

func TestGenerate_ConcurrentCallsAreSerialised(t *testing.T) {
	orch := newOrchestrator(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := orch.Generate(context.Background()); err != nil {
				t.Errorf("generate: %v", err)
			}
		}()
	}
	wg.Wait()

	want, _ := generator.Generate(small, generator.Seed{Base: 42, Generation: 8}, generator.DefaultPalette())
	if diff := cmp.Diff(want, orch.Table()); diff != "" {
		t.Fatalf("final table mismatch (-want +got):\n%s", diff)
	}
	if orch.Loading() {
		t.Fatalf("loading flag left set")
	}
}

func TestSetModel_DoesNotRegenerate(t *testing.T) {
	orch := newOrchestrator(t)
	before := orch.Table()

	next := model.GridModel{Cols: 3, Rows: 2, ColSize: 8, RowSize: 9}
	if err := orch.SetModel(next); err != nil {
		t.Fatalf("set model: %v", err)
	}
	if orch.Model() != next {
		t.Fatalf("model not stored: %+v", orch.Model())
	}
	if diff := cmp.Diff(before, orch.Table()); diff != "" {
		t.Fatalf("table changed before generate (-want +got):\n%s", diff)
	}

	generated, err := orch.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if rows, cols := generated.Dimensions(); rows != 2 || cols != 3 {
		t.Fatalf("want 2x3 table, got %dx%d", rows, cols)
	}
}

func TestSetModel_RejectsInvalid(t *testing.T) {
	orch := newOrchestrator(t)
	if err := orch.SetModel(model.GridModel{Cols: 0, Rows: 1, ColSize: 1, RowSize: 1}); !errors.Is(err, model.ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
	if orch.Model() != small {
		t.Fatalf("rejected model stored: %+v", orch.Model())
	}
}

func TestEditField_UpdatesModel(t *testing.T) {
	orch := newOrchestrator(t)

	if err := orch.EditField(model.FieldRows, "7"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if orch.Model().Rows != 7 {
		t.Fatalf("edit not applied: %+v", orch.Model())
	}

	if err := orch.EditField(model.FieldRows, "seven"); !errors.Is(err, model.ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
	if orch.Model().Rows != 7 {
		t.Fatalf("rejected edit applied: %+v", orch.Model())
	}
}

func TestApplyFields_AllOrNothing(t *testing.T) {
	orch := newOrchestrator(t)

	err := orch.ApplyFields(map[string]string{"cols": "9", "rows": "0"})
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff(map[string][]string{"rows": {"must be a positive integer"}}, verr.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if orch.Model() != small {
		t.Fatalf("partial submission applied: %+v", orch.Model())
	}

	if err := orch.ApplyFields(map[string]string{"cols": "9", "rows": "3"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := model.GridModel{Cols: 9, Rows: 3, ColSize: 8, RowSize: 9}
	if orch.Model() != want {
		t.Fatalf("want %+v, got %+v", want, orch.Model())
	}
}

func TestApplyFields_CommitsFinalModelOnce(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	orch := newOrchestrator(t,
		orchestrator.WithDefaultModel(model.DefaultModel()),
		orchestrator.WithLogger(zap.New(core)),
	)

	// 10000 columns only fit once rows drop to 10.
	err := orch.ApplyFields(map[string]string{"cols": "10000", "rows": "10"})
	if err != nil {
		t.Fatalf("apply fields: %v", err)
	}

	want := model.GridModel{Cols: 10000, Rows: 10, ColSize: 36, RowSize: 38}
	if diff := cmp.Diff(want, orch.Model()); diff != "" {
		t.Fatalf("model mismatch (-want +got):\n%s", diff)
	}
	if errs := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); errs != 0 {
		t.Fatalf("expected no error logs, got %d: %+v", errs, logs.All())
	}
	if changes := logs.FilterMessage("grid model changed").Len(); changes != 1 {
		t.Fatalf("expected a single model transition, got %d", changes)
	}
}

func TestRender_DefaultRendererIsHTML(t *testing.T) {
	orch := newOrchestrator(t)

	out, err := orch.Render(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out.ContentType, "text/html") {
		t.Fatalf("unexpected content type %q", out.ContentType)
	}

	doc := testsupport.ParseHTML(t, out.Body)
	style, ok := testsupport.CellStyle(doc, 2, 3)
	if !ok {
		t.Fatalf("cell 2,3 missing from rendered page")
	}
	cell, _ := orch.Table().At(1, 2)
	if style != cell.Style() {
		t.Fatalf("want style %q, got %q", cell.Style(), style)
	}
}

func TestRender_EchoesValuesAndErrors(t *testing.T) {
	orch := newOrchestrator(t)

	out, err := orch.Render(testsupport.Context(), orchestrator.Request{
		RenderOptions: render.RenderOptions{
			Values: map[string]string{"rows": "abc"},
			Errors: map[string][]string{"rows": {"must be a whole number"}},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := testsupport.ParseHTML(t, out.Body)
	input := testsupport.FindByID(doc, "grid-rows")
	if input == nil || testsupport.Attr(input, "value") != "abc" {
		t.Fatalf("submitted value not echoed")
	}
	if !strings.Contains(string(out.Body), "must be a whole number") {
		t.Fatalf("inline error missing")
	}
}

func TestRender_NamedRenderers(t *testing.T) {
	orch := newOrchestrator(t)

	for _, tc := range []struct {
		name        string
		contentType string
	}{
		{"json", "application/json"},
		{"terminal", "text/plain; charset=utf-8"},
	} {
		out, err := orch.Render(testsupport.Context(), orchestrator.Request{Renderer: tc.name})
		if err != nil {
			t.Fatalf("%s: render: %v", tc.name, err)
		}
		if out.ContentType != tc.contentType {
			t.Fatalf("%s: want content type %q, got %q", tc.name, tc.contentType, out.ContentType)
		}
		if len(out.Body) == 0 {
			t.Fatalf("%s: empty body", tc.name)
		}
	}

	if diff := cmp.Diff([]string{"json", "terminal", "vanilla"}, orch.Renderers()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_UnknownRenderer(t *testing.T) {
	orch := newOrchestrator(t)
	_, err := orch.Render(testsupport.Context(), orchestrator.Request{Renderer: "pdf"})
	if !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer for a named unknown renderer, got %v", err)
	}
}

func TestRender_FallsBackToFirstRegistered(t *testing.T) {
	registry := render.NewRegistry()
	capture := &captureRenderer{}
	registry.MustRegister(capture)

	orch := newOrchestrator(t,
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer("missing"),
	)
	out, err := orch.Render(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out.Body) != small.String() {
		t.Fatalf("unexpected body %q", out.Body)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	orch := newOrchestrator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Render(ctx, orchestrator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestForm_NotifiesOrchestrator(t *testing.T) {
	orch := newOrchestrator(t)

	f, err := orch.Form()
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if err := f.Edit(model.FieldColSize, "20"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if orch.Model().ColSize != 20 {
		t.Fatalf("form edit not propagated: %+v", orch.Model())
	}
}

func TestTranslatorAppliedByDefault(t *testing.T) {
	translator := render.MapTranslator{"es": {"grid.actions.generate": "Generar"}}
	orch := newOrchestrator(t, orchestrator.WithTranslator(translator))

	out, err := orch.Render(testsupport.Context(), orchestrator.Request{
		RenderOptions: render.RenderOptions{Locale: "es"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out.Body), "Generar") {
		t.Fatalf("translator not applied")
	}
}

type captureRenderer struct {
	options render.RenderOptions
	page    render.Page
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	r.page = page
	return []byte(page.Model.String()), nil
}
