// Package web renders the server-side HTML pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/avasiliev/feedback-service/internal/models"
	"github.com/avasiliev/feedback-service/internal/session"
)

//go:embed templates/*.html
var files embed.FS

var pages = []string{
	"register",
	"login",
	"profile",
	"feedback",
	"feedback_add",
	"feedback_edit",
	"notfound",
	"error",
}

// Page carries everything a template may need.
type Page struct {
	Title    string
	Username string // logged-in user, for the nav bar
	Flash    *session.Flash
	Errors   map[string]string // field name -> message
	Form     map[string]string // submitted values for re-rendering
	User     *models.User
	Feedback []models.Feedback
	Entry    *models.Feedback
}

// Renderer holds the parsed page templates
type Renderer struct {
	tmpl map[string]*template.Template
}

// NewRenderer parses all embedded templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{tmpl: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.ParseFS(files, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.tmpl[page] = t
	}
	return r, nil
}

// Render writes a page wrapped in the shared layout
func (r *Renderer) Render(w io.Writer, page string, data *Page) error {
	t, ok := r.tmpl[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	return nil
}
