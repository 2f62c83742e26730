package vanilla_test

import (
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/net/html"

	"github.com/goliatone/go-gridgen/pkg/form"
	"github.com/goliatone/go-gridgen/pkg/generator"
	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/render"
	"github.com/goliatone/go-gridgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-gridgen/pkg/table"
	"github.com/goliatone/go-gridgen/pkg/testsupport"
)

var smallModel = model.GridModel{Cols: 5, Rows: 4, ColSize: 10, RowSize: 12}

func buildPage(t *testing.T, m model.GridModel, generation uint64, loading bool, viewOpts form.ViewOptions) render.Page {
	t.Helper()

	generated, err := generator.Generate(m, generator.Seed{Base: 11, Generation: generation}, generator.DefaultPalette())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	f, err := form.New(form.Props{DefaultModel: m, IsLoading: loading})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return render.Page{
		Model: m,
		Form:  f.View(viewOpts),
		Table: table.NewView(generated),
	}
}

func renderPage(t *testing.T, page render.Page, opts render.RenderOptions, options ...vanilla.Option) *html.Node {
	t.Helper()

	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(testsupport.Context(), page, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return testsupport.ParseHTML(t, output)
}

func TestRenderer_DOMContract(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{})
	doc := renderPage(t, page, render.RenderOptions{})

	if got := len(testsupport.FindAll(doc, "form")); got != 1 {
		t.Fatalf("want exactly one form, got %d", got)
	}
	if got := len(testsupport.FindAll(doc, "table")); got != 1 {
		t.Fatalf("want exactly one table, got %d", got)
	}

	style, ok := testsupport.CellStyle(doc, 2, 3)
	if !ok {
		t.Fatalf("row 2 / cell 3 selector did not resolve")
	}
	want := page.Table.Rows[1].Cells[2].Style
	if style != want {
		t.Fatalf("cell style mismatch\nwant: %q\n got: %q", want, style)
	}

	rows := testsupport.FindAll(doc, "tr")
	if len(rows) != smallModel.Rows {
		t.Fatalf("want %d rows, got %d", smallModel.Rows, len(rows))
	}
	for i, row := range rows {
		if got := len(testsupport.FindAll(row, "td")); got != smallModel.Cols {
			t.Fatalf("row %d: want %d cells, got %d", i, smallModel.Cols, got)
		}
	}
}

func TestRenderer_FormInputsAndButton(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{})
	doc := renderPage(t, page, render.RenderOptions{})

	values := map[string]string{}
	for _, input := range testsupport.FindAll(doc, "input") {
		if testsupport.Attr(input, "type") != "number" {
			continue
		}
		values[testsupport.Attr(input, "name")] = testsupport.Attr(input, "value")
	}
	want := smallModel.Values()
	for name, value := range want {
		if values[name] != value {
			t.Fatalf("input %s: want %q, got %q", name, value, values[name])
		}
	}
	if len(values) != len(want) {
		t.Fatalf("want %d numeric inputs, got %d", len(want), len(values))
	}

	buttons := testsupport.FindAll(doc, "button")
	if len(buttons) != 1 {
		t.Fatalf("want one button, got %d", len(buttons))
	}
	if label := textContent(buttons[0]); label != "Generate" {
		t.Fatalf("want Generate button, got %q", label)
	}
	if testsupport.HasAttr(buttons[0], "disabled") {
		t.Fatalf("button disabled while idle")
	}
}

func TestRenderer_LoadingDisablesButton(t *testing.T) {
	page := buildPage(t, smallModel, 0, true, form.ViewOptions{})
	doc := renderPage(t, page, render.RenderOptions{})

	buttons := testsupport.FindAll(doc, "button")
	if len(buttons) != 1 || !testsupport.HasAttr(buttons[0], "disabled") {
		t.Fatalf("expected a single disabled button while loading")
	}
}

func TestRenderer_CellStyleChangesBetweenGenerations(t *testing.T) {
	first := renderPage(t, buildPage(t, smallModel, 0, false, form.ViewOptions{}), render.RenderOptions{})
	second := renderPage(t, buildPage(t, smallModel, 1, false, form.ViewOptions{}), render.RenderOptions{})

	before, _ := testsupport.CellStyle(first, 2, 3)
	after, _ := testsupport.CellStyle(second, 2, 3)
	if before == "" || before == after {
		t.Fatalf("cell style did not change: %q -> %q", before, after)
	}
}

func TestRenderer_InlineErrorsAndHiddenFields(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{
		Values:     map[string]string{model.FieldRows: "0"},
		Errors:     map[string][]string{model.FieldRows: {"must be at least 1"}},
		FormErrors: []string{"Fix the highlighted fields"},
	})
	doc := renderPage(t, page, render.RenderOptions{
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken("_csrf", "tok")),
	})

	rows := testsupport.FindByID(doc, "grid-rows")
	if rows == nil {
		t.Fatalf("rows input missing")
	}
	if testsupport.Attr(rows, "value") != "0" || testsupport.Attr(rows, "aria-invalid") != "true" {
		t.Fatalf("rejected value not echoed as invalid: %+v", rows.Attr)
	}
	if msg := textContent(testsupport.FindByID(doc, "grid-rows-error")); msg != "must be at least 1" {
		t.Fatalf("unexpected inline error %q", msg)
	}
	if got := len(testsupport.FindAll(doc, "li")); got != 1 {
		t.Fatalf("want one form-level error, got %d", got)
	}

	var csrf string
	for _, input := range testsupport.FindAll(doc, "input") {
		if testsupport.Attr(input, "type") == "hidden" && testsupport.Attr(input, "name") == "_csrf" {
			csrf = testsupport.Attr(input, "value")
		}
	}
	if csrf != "tok" {
		t.Fatalf("hidden csrf field missing, got %q", csrf)
	}
}

func TestRenderer_SanitisesTitleAndIntro(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{})
	doc := renderPage(t, page, render.RenderOptions{
		Title: `Colour <em>grid</em><script>alert(1)</script>`,
		Intro: `<p onclick="x()">Press <strong>Generate</strong></p>`,
	})

	if got := len(testsupport.FindAll(doc, "script")); got != 0 {
		t.Fatalf("script survived sanitising")
	}
	if got := len(testsupport.FindAll(doc, "em")); got != 1 {
		t.Fatalf("want allowed <em> kept, got %d", got)
	}
	for _, p := range testsupport.FindAll(doc, "p") {
		if testsupport.HasAttr(p, "onclick") {
			t.Fatalf("event handler survived sanitising")
		}
	}
	titles := testsupport.FindAll(doc, "title")
	if len(titles) != 1 || textContent(titles[0]) != "Colour grid" {
		t.Fatalf("unexpected document title")
	}

	style, ok := testsupport.CellStyle(doc, 2, 3)
	if !ok || style == "" {
		t.Fatalf("header chrome broke the table selector")
	}
}

func TestRenderer_ThemeCSSVars(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{})
	doc := renderPage(t, page, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "default",
			Variant: "dark",
			CSSVars: map[string]string{"--gridgen-accent": "#ff8800"},
		},
	}, vanilla.WithStylesheet("/assets/gridgen.css"))

	var themed *html.Node
	for _, style := range testsupport.FindAll(doc, "style") {
		if testsupport.Attr(style, "data-theme") == "default" {
			themed = style
		}
	}
	if themed == nil {
		t.Fatalf("theme style block missing")
	}
	if testsupport.Attr(themed, "data-variant") != "dark" {
		t.Fatalf("variant attribute missing")
	}
	if !strings.Contains(textContent(themed), "--gridgen-accent: #ff8800;") {
		t.Fatalf("css var missing from %q", textContent(themed))
	}

	links := testsupport.FindAll(doc, "link")
	if len(links) != 1 || testsupport.Attr(links[0], "href") != "/assets/gridgen.css" {
		t.Fatalf("stylesheet link missing")
	}
}

func TestRenderer_ThemeStylesheetAndPagePartial(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{})
	files := fstest.MapFS{
		"templates/alt.tmpl": &fstest.MapFile{Data: []byte(`<p id="alt">{% for href in stylesheets %}{{ href }}{% endfor %}</p>`)},
	}
	doc := renderPage(t, page, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:    "acme",
			Partials: map[string]string{render.PartialPage: "templates/alt.tmpl"},
			AssetURL: func(key string) string {
				if key == render.AssetStylesheet {
					return "/assets/themes/acme/theme.css"
				}
				return ""
			},
		},
	}, vanilla.WithTemplatesFS(files))

	alt := testsupport.FindByID(doc, "alt")
	if alt == nil {
		t.Fatalf("theme page partial not used")
	}
	if got := textContent(alt); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("theme stylesheet not linked, got %q", got)
	}
}

func TestRenderer_LocalisesLabels(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{})
	doc := renderPage(t, page, render.RenderOptions{
		Locale: "es",
		Translator: render.MapTranslator{
			"es": {form.LabelKeyGenerate: "Generar"},
		},
	})

	buttons := testsupport.FindAll(doc, "button")
	if len(buttons) != 1 || textContent(buttons[0]) != "Generar" {
		t.Fatalf("button label not localised")
	}
	if roots := testsupport.FindAll(doc, "html"); testsupport.Attr(roots[0], "lang") != "es" {
		t.Fatalf("document lang not set")
	}
	if page.Form.ButtonLabel != "Generate" {
		t.Fatalf("localisation mutated the page snapshot")
	}
}

func TestRenderer_DefaultStylesInlined(t *testing.T) {
	page := buildPage(t, smallModel, 0, false, form.ViewOptions{})
	doc := renderPage(t, page, render.RenderOptions{}, vanilla.WithDefaultStyles())

	styles := testsupport.FindAll(doc, "style")
	if len(styles) != 1 || !strings.Contains(textContent(styles[0]), ".gridgen-cell") {
		t.Fatalf("default stylesheet not inlined")
	}
}

func TestAssetsFS_ServesStylesheet(t *testing.T) {
	f, err := vanilla.AssetsFS().Open(vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	f.Close()
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
