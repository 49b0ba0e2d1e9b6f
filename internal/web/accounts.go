package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/middleware"
	"github.com/yatube/yatube/internal/service"
)

const (
	msgInvalidLogin     = "Please enter a correct username and password."
	msgPasswordMismatch = "The two password fields didn't match."
)

func (s *Server) setSession(w http.ResponseWriter, session *service.Session) {
	ttl := s.jwt.TokenDuration()
	http.SetCookie(w, &http.Cookie{
		Name:     s.sessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	data := s.newData(r)

	if r.Method == http.MethodGet {
		data.Next = r.URL.Query().Get("next")
		s.render(w, r, http.StatusOK, "login", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	data.Username = r.PostForm.Get("username")
	data.Next = r.PostForm.Get("next")

	session, err := s.auth.Login(r.Context(), data.Username, r.PostForm.Get("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		data.Errors.Add("", msgInvalidLogin)
		s.render(w, r, http.StatusOK, "login", data)
		return
	} else if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.setSession(w, session)
	http.Redirect(w, r, middleware.SafeNext(data.Next, "/"), http.StatusFound)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	data := s.newData(r)

	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "signup", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	data.Username = r.PostForm.Get("username")
	password := r.PostForm.Get("password1")

	if password != r.PostForm.Get("password2") {
		data.Errors.Add("password2", msgPasswordMismatch)
		s.render(w, r, http.StatusOK, "signup", data)
		return
	}

	session, err := s.auth.Register(r.Context(), data.Username, password)
	if err != nil {
		if field, ok := signupField(err); ok {
			data.Errors.Add(field, err.Error())
			s.render(w, r, http.StatusOK, "signup", data)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.setSession(w, session)
	http.Redirect(w, r, "/", http.StatusFound)
}

// signupField maps a registration error to the form field it belongs to.
func signupField(err error) (string, bool) {
	switch {
	case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, auth.ErrInvalidUsername):
		return "username", true
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
		return "password1", true
	}
	return "", false
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
