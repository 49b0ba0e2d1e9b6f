package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/internal/middleware"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are rendered inside the "base" layout together with the shared partials.
var pages = []string{
	"index", "group_list", "profile", "post_detail", "create_post",
	"login", "signup", "404", "500",
}

// templateData is the single view model every page is rendered with.
type templateData struct {
	CurrentUser middleware.Identity
	Path        string

	Page        *service.PostPage
	Group       *models.Group
	Author      *models.User
	Count       int
	Post        *models.Post
	AuthorPosts []models.Post

	Groups []models.Group
	Input  forms.PostInput
	IsEdit bool

	Username string
	Next     string
	Errors   forms.Errors
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006, 15:04")
	},
	"truncate": truncate,
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

func loadTemplates() (map[string]*template.Template, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	set := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(sub, "base.html", "partials.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		set[name] = t
	}
	return set, nil
}

func (s *Server) newData(r *http.Request) *templateData {
	return &templateData{
		CurrentUser: middleware.CurrentIdentity(r.Context()),
		Path:        r.URL.Path,
		Errors:      forms.Errors{},
	}
}

// render executes the page into a buffer first so a template error can still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	t, ok := s.templates[page]
	if !ok {
		s.serverError(w, r, fmt.Errorf("template %q not found", page))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		s.serverError(w, r, fmt.Errorf("failed to render %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "404", s.newData(r))
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)

	var buf bytes.Buffer
	if t, ok := s.templates["500"]; ok && t.ExecuteTemplate(&buf, "base", s.newData(r)) == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		buf.WriteTo(w)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
