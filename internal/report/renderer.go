package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/wqkoh/reitwatch/internal/core"
)

//go:embed templates/*
var templateFS embed.FS

// Renderer turns a report into the static dashboard page.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded dashboard template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("dashboard.html").Funcs(template.FuncMap{
		"pct":         signedPct,
		"changeClass": changeClass,
	}).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parsing dashboard template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the dashboard HTML for one report.
func (r *Renderer) Render(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "dashboard.html", report); err != nil {
		return nil, core.WrapError(core.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

// signedPct renders a percentage metric with an explicit sign, or N/A.
func signedPct(m core.Metric) string {
	v, ok := m.Value()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// changeClass picks the CSS class for a change cell.
func changeClass(m core.Metric) string {
	v, ok := m.Value()
	switch {
	case !ok:
		return "na"
	case v > 0:
		return "pos"
	case v < 0:
		return "neg"
	default:
		return ""
	}
}
