package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/spec-kit/chat-service/internal/domain"
)

const baseTemplate = "base.html"

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every template receives. Data holds the page-specific view.
type Page struct {
	Title  string
	User   *domain.Identity
	Error  string
	Notice string
	Data   any
}

// Renderer executes the embedded page templates. It satisfies fiber.Views.
type Renderer struct {
	markdown  *Markdown
	templates map[string]*template.Template
}

// NewRenderer parses every page template against the base layout.
func NewRenderer(markdown *Markdown) (*Renderer, error) {
	if markdown == nil {
		markdown = NewMarkdown()
	}
	r := &Renderer{markdown: markdown}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load parses the templates. Each page is parsed together with the base layout.
func (r *Renderer) Load() error {
	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return fmt.Errorf("read templates: %w", err)
	}

	funcs := template.FuncMap{
		"markdown": r.markdown.Render,
		"date": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04")
		},
		"isUser": func(role domain.ChatRole) bool {
			return role == domain.ChatRoleUser
		},
	}

	templates := make(map[string]*template.Template, len(entries))
	for _, e := range entries {
		if e.IsDir() || e.Name() == baseTemplate || path.Ext(e.Name()) != ".html" {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(funcs).ParseFS(templateFS,
			path.Join("templates", baseTemplate),
			path.Join("templates", e.Name()),
		)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", e.Name(), err)
		}
		templates[strings.TrimSuffix(e.Name(), ".html")] = tmpl
	}
	r.templates = templates
	return nil
}

// Render writes the named page. Layouts are fixed to the base template and ignored.
func (r *Renderer) Render(w io.Writer, name string, data any, _ ...string) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.Execute(w, data)
}
