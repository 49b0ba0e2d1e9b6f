// Package web serves the HTML interface: feeds, post detail, the post form
// and the account pages.
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/middleware"
	"github.com/yatube/yatube/internal/service"
)

const metricsPath = "/metrics"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	Posts  *service.PostService
	Auth   *service.AuthService
	JWT    *auth.JWTManager
	Health Pinger
	Logger *slog.Logger

	// Users resolves session tokens to live accounts. When nil the token's
	// claims are trusted as-is.
	Users middleware.UserLookup

	// Gatherer backs /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	SessionCookie string
	LoginURL      string
	SecureCookies bool
}

// Server holds the handlers and their dependencies.
type Server struct {
	posts     *service.PostService
	auth      *service.AuthService
	jwt       *auth.JWTManager
	health    Pinger
	users     middleware.UserLookup
	logger    *slog.Logger
	gatherer  prometheus.Gatherer
	templates map[string]*template.Template

	sessionCookie string
	loginURL      string
	secureCookies bool
}

// New parses the templates and builds a Server.
func New(opts Options) (*Server, error) {
	if opts.Posts == nil || opts.Auth == nil || opts.JWT == nil {
		return nil, errors.New("web: posts, auth and jwt are required")
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		posts:         opts.Posts,
		auth:          opts.Auth,
		jwt:           opts.JWT,
		health:        opts.Health,
		users:         opts.Users,
		logger:        opts.Logger,
		gatherer:      opts.Gatherer,
		templates:     templates,
		sessionCookie: opts.SessionCookie,
		loginURL:      opts.LoginURL,
		secureCookies: opts.SecureCookies,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.sessionCookie == "" {
		s.sessionCookie = "yatube_session"
	}
	if s.loginURL == "" {
		s.loginURL = "/login/"
	}
	return s, nil
}

// Handler returns the routed handler with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(metricsPath))
	r.Use(middleware.Session(s.jwt, s.sessionCookie, s.users))

	r.Get("/", s.index)
	r.Get("/group/{slug}/", s.groupPosts)
	r.Get("/profile/{username}/", s.profile)
	r.Get("/posts/{id}/", s.postDetail)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin(s.loginURL))
		r.Get("/create/", s.postCreate)
		r.Post("/create/", s.postCreate)
		r.Get("/posts/{id}/edit/", s.postEdit)
		r.Post("/posts/{id}/edit/", s.postEdit)
	})

	r.Get("/signup/", s.signup)
	r.Post("/signup/", s.signup)
	r.Get("/login/", s.login)
	r.Post("/login/", s.login)
	r.Get("/logout/", s.logout)
	r.Post("/logout/", s.logout)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, metricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.NotFound(s.appendSlash(r, s.notFound))
	return r
}

// appendSlash redirects GET requests missing a trailing slash to the slashed
// route when one exists, and otherwise falls through to notFound.
func (s *Server) appendSlash(routes chi.Routes, notFound http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if (r.Method == http.MethodGet || r.Method == http.MethodHead) && path != "" && path[len(path)-1] != '/' {
			if routes.Match(chi.NewRouteContext(), r.Method, path+"/") {
				target := path + "/"
				if r.URL.RawQuery != "" {
					target += "?" + r.URL.RawQuery
				}
				http.Redirect(w, r, target, http.StatusMovedPermanently)
				return
			}
		}
		notFound(w, r)
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Error("Health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
