// Package web renders the board's HTML pages from embedded templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubhouse/members-only/internal/core/domain"
)

//go:embed templates/*.html
var files embed.FS

// Page names understood by Renderer.
const (
	PageIndex       = "index"
	PageSignup      = "signup"
	PageLogin       = "login"
	PageJoin        = "join"
	PageAdmin       = "admin"
	PageNewMessage  = "new-message"
	PageEditMessage = "edit-message"
	PageError       = "error"
)

var pageNames = []string{
	PageIndex, PageSignup, PageLogin, PageJoin, PageAdmin,
	PageNewMessage, PageEditMessage, PageError,
}

// Page is the data every template receives.
type Page struct {
	Title       string
	CurrentUser *domain.User
	Flashes     []domain.Flash
	Errors      []string
	// Form holds values to re-populate inputs with.
	Form     map[string]string
	Messages []*domain.Message
	Message  *domain.Message
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	// Message title and text are escaped before they are stored.
	"stored": func(s string) template.HTML { return template.HTML(s) },
	"datetime": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 15:04")
	},
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
