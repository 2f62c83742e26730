package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-gridgen/pkg/model"
	"github.com/goliatone/go-gridgen/pkg/orchestrator"
	"github.com/goliatone/go-gridgen/pkg/render"
	"github.com/goliatone/go-gridgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-gridgen/pkg/validation"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /generate", s.handleFormPost(true))
	mux.HandleFunc("POST /model", s.handleFormPost(false))
	mux.HandleFunc("GET /api/grid", s.handleGrid)
	mux.HandleFunc("PUT /api/model", s.handlePutModel)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /openapi.yaml", s.handleDocument)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, render.RenderOptions{})
}

// handleFormPost applies submitted field edits. Form-encoded bodies go through
// the same boundary policy as the inputs; JSON bodies are checked against the
// OpenAPI schema first. Rejections re-render the page with 422 and the
// submitted values echoed back.
func (s *Server) handleFormPost(generate bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, mapping, err := s.submittedValues(w, r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if mapping != nil {
			s.renderPage(w, r, http.StatusUnprocessableEntity, render.RenderOptions{
				Errors:     mapping.Fields,
				FormErrors: mapping.Form,
			})
			return
		}

		if err := s.orch.ApplyFields(values); err != nil {
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				s.fail(w, r, "apply fields", err)
				return
			}
			s.renderPage(w, r, http.StatusUnprocessableEntity, render.RenderOptions{
				Values: values,
				Errors: render.FieldErrors(verr),
			})
			return
		}

		if generate {
			if _, err := s.orch.Generate(r.Context()); err != nil {
				s.fail(w, r, "generate", err)
				return
			}
		}
		http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
	}
}

func (s *Server) submittedValues(w http.ResponseWriter, r *http.Request) (map[string]string, *render.ErrorMapping, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return nil, nil, errors.New("invalid form body")
		}
		values := make(map[string]string, 4)
		for _, field := range model.Fields() {
			if _, ok := r.PostForm[field]; ok {
				values[field] = r.PostForm.Get(field)
			}
		}
		return values, nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, errors.New("invalid request body")
	}
	result := s.validator.ValidateModel(r.Context(), body)
	if !result.Valid {
		mapping := render.MapErrorPayload(issuesByPath(result))
		return nil, &mapping, nil
	}
	var m model.GridModel
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, nil, errors.New("invalid request body")
	}
	return m.Values(), nil, nil
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	s.writeRendered(w, r, http.StatusOK, orchestrator.Request{Renderer: "json"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if _, err := s.orch.Generate(r.Context()); err != nil {
		s.fail(w, r, "generate", err)
		return
	}
	s.writeRendered(w, r, http.StatusOK, orchestrator.Request{Renderer: "json"})
}

func (s *Server) handlePutModel(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := s.validator.ValidateModel(r.Context(), body)
	if !result.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	var m model.GridModel
	if err := json.Unmarshal(body, &m); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.orch.SetModel(m); err != nil {
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			s.fail(w, r, "set model", err)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, resultFromValidation(verr))
		return
	}
	writeJSON(w, http.StatusOK, s.orch.Model())
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(validation.Document())
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, opts render.RenderOptions) {
	query := r.URL.Query()
	opts.Title = s.title
	opts.Intro = s.intro
	if opts.Locale == "" {
		opts.Locale = requestLocale(r)
	}
	s.writeRendered(w, r, status, orchestrator.Request{
		Renderer:      "vanilla",
		ThemeName:     query.Get("theme"),
		ThemeVariant:  query.Get("variant"),
		RenderOptions: opts,
	})
}

func (s *Server) writeRendered(w http.ResponseWriter, r *http.Request, status int, req orchestrator.Request) {
	out, err := s.orch.Render(r.Context(), req)
	if err != nil {
		if errors.Is(err, orchestrator.ErrUnknownTheme) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.fail(w, r, "render", err)
		return
	}
	w.Header().Set("Content-Type", out.ContentType)
	w.WriteHeader(status)
	if _, err := w.Write(out.Body); err != nil {
		s.logger.Warn("write response", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error(op+" failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// issuesByPath keys issue messages by JSON pointer so MapErrorPayload can
// route them onto fields.
func issuesByPath(result validation.Result) map[string][]string {
	out := make(map[string][]string, len(result.Issues))
	for _, issue := range result.Issues {
		out[issue.Path] = append(out[issue.Path], issue.Message)
	}
	return out
}

func resultFromValidation(verr *model.ValidationError) validation.Result {
	result := validation.Result{}
	for _, field := range model.Fields() {
		for _, msg := range verr.Messages()[field] {
			result.Issues = append(result.Issues, validation.Issue{Path: "/" + field, Field: field, Message: msg})
		}
	}
	return result
}

// requestLocale reads ?lang= and falls back to the first Accept-Language tag.
func requestLocale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return lang
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	if i := strings.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	if first == "*" {
		return ""
	}
	return first
}

// redirectTarget keeps theme and locale selections across the post/redirect.
func redirectTarget(r *http.Request) string {
	query := r.URL.Query()
	keep := url.Values{}
	for _, key := range []string{"theme", "variant", "lang"} {
		if v := query.Get(key); v != "" {
			keep.Set(key, v)
		}
	}
	if len(keep) == 0 {
		return "/"
	}
	return "/?" + keep.Encode()
}
