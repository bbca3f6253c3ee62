package report

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

func defaultTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// embed paths are fixed at compile time, so Sub cannot fail here.
		panic(err)
	}
	return sub
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithEngine replaces the default embedded-template engine, letting callers
// point the renderer at their own template set.
func WithEngine(engine *Engine) RendererOption {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTheme attaches theming to HTML output. Tokens become CSS custom
// properties on :root; explicit CSSVars win over derived ones.
func WithTheme(cfg *theme.RendererConfig) RendererOption {
	return func(r *Renderer) {
		r.theme = cfg
	}
}

// WithConfigID labels rendered output with the analyzed form's identifier.
func WithConfigID(id string) RendererOption {
	return func(r *Renderer) {
		r.configID = strings.TrimSpace(id)
	}
}

// Renderer produces human-readable text and HTML documents from a Report.
type Renderer struct {
	engine   *Engine
	theme    *theme.RendererConfig
	configID string
}

// NewRenderer builds a Renderer over the embedded templates unless an
// engine override is supplied.
func NewRenderer(options ...RendererOption) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.engine == nil {
		engine, err := NewEngine()
		if err != nil {
			return nil, err
		}
		r.engine = engine
	}
	return r, nil
}

// Text renders the plain-text report, optionally teeing into writers.
func (r *Renderer) Text(rep Report, out ...io.Writer) (string, error) {
	data, err := r.templateData(rep)
	if err != nil {
		return "", err
	}
	return r.engine.RenderTemplate("report.txt", data, out...)
}

// HTML renders the themed HTML report, optionally teeing into writers.
func (r *Renderer) HTML(rep Report, out ...io.Writer) (string, error) {
	data, err := r.templateData(rep)
	if err != nil {
		return "", err
	}
	return r.engine.RenderTemplate("report.html", data, out...)
}

type rendererTheme struct {
	Name         string            `json:"name"`
	Variant      string            `json:"variant"`
	Tokens       map[string]string `json:"tokens,omitempty"`
	CSSVars      map[string]string `json:"cssVars,omitempty"`
	CSSVarsStyle string            `json:"css_vars_style,omitempty"`
}

func (r *Renderer) templateData(rep Report) (map[string]any, error) {
	base, err := jsonToMap(rep)
	if err != nil {
		return nil, fmt.Errorf("report: convert report: %w", err)
	}

	themeCtx := buildThemeContext(r.theme)
	themeMap, err := jsonToMap(themeCtx)
	if err != nil {
		return nil, fmt.Errorf("report: convert theme: %w", err)
	}

	base["total"] = rep.Summary.Total()
	base["theme"] = themeMap
	base["config_id"] = r.configID
	return base, nil
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	if ctx.CSSVars == nil && len(ctx.Tokens) > 0 {
		ctx.CSSVars = make(map[string]string, len(ctx.Tokens))
		for key, value := range ctx.Tokens {
			if !strings.HasPrefix(key, "--") {
				key = "--" + key
			}
			ctx.CSSVars[key] = value
		}
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	return ctx
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// MarshalIndentJSON is a convenience for callers that want the raw document
// without going through an io.Writer.
func MarshalIndentJSON(rep Report) ([]byte, error) {
	payload, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshal: %w", err)
	}
	return payload, nil
}
