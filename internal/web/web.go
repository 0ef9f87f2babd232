// Package web holds the embedded dashboard assets and renders the
// card view-models into HTML.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/byron-goldsack/GithubMonitor/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// IndexData is the payload of the dashboard shell page.
type IndexData struct {
	Username  string
	PRs       []view.PRCard
	Workflows []view.RunCard
}

// Renderer executes the embedded dashboard templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderIndex writes the full dashboard page
func (r *Renderer) RenderIndex(w io.Writer, data IndexData) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", data)
}

// RenderPRs writes the pull request list fragment
func (r *Renderer) RenderPRs(w io.Writer, cards []view.PRCard) error {
	return r.tmpl.ExecuteTemplate(w, "prs", cards)
}

// RenderWorkflows writes the standalone workflow list fragment
func (r *Renderer) RenderWorkflows(w io.Writer, cards []view.RunCard) error {
	return r.tmpl.ExecuteTemplate(w, "workflows", cards)
}

// StaticFS returns the embedded static assets rooted at static/
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
