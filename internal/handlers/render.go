package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"

	"taskboard/internal/auth"
	"taskboard/internal/flash"
	"taskboard/internal/forms"
	"taskboard/internal/models"
)

var pages = []string{
	"index.html",
	"login.html",
	"register.html",
	"add_task.html",
	"new_tag.html",
	"dashboard.html",
}

// PageData is what every page template receives.
type PageData struct {
	CurrentUser *models.User
	Flash       string
	Form        interface{}
	Errors      forms.Errors
	IsEdit      bool
	TaskID      int64
	Dashboard   models.Dashboard
}

// Renderer executes the page templates, each parsed together with the layout.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(fsys fs.FS) (*Renderer, error) {
	funcs := template.FuncMap{
		"dashboardURL": dashboardURL,
	}

	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

func dashboardURL(username string) string {
	return "/dashboard/" + url.PathEscape(username)
}

// Render writes page with the current user and any pending flash message
// filled in. The page is rendered to a buffer first so a template failure
// never leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, page string, status int, data PageData) {
	t, ok := rd.templates[page]
	if !ok {
		log.Printf("Render: unknown template %q", page)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if user, ok := auth.CurrentUser(r.Context()); ok {
		data.CurrentUser = user
	}
	data.Flash = flash.Pop(w, r)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("Render %s: %v", page, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
