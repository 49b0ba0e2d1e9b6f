package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/internal/middleware"
	"github.com/yatube/yatube/internal/service"
)

func pageParam(r *http.Request) string {
	return r.URL.Query().Get("page")
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func detailURL(rawID string) string {
	return "/posts/" + url.PathEscape(rawID) + "/"
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	page, err := s.posts.Index(r.Context(), pageParam(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.newData(r)
	data.Page = &page
	s.render(w, r, http.StatusOK, "index", data)
}

func (s *Server) groupPosts(w http.ResponseWriter, r *http.Request) {
	feed, err := s.posts.GroupFeed(r.Context(), chi.URLParam(r, "slug"), pageParam(r))
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(w, r)
		return
	} else if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.newData(r)
	data.Group = feed.Group
	data.Page = &feed.Page
	s.render(w, r, http.StatusOK, "group_list", data)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	feed, err := s.posts.AuthorFeed(r.Context(), chi.URLParam(r, "username"), pageParam(r))
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(w, r)
		return
	} else if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.newData(r)
	data.Author = feed.Author
	data.Count = feed.Count
	data.Page = &feed.Page
	s.render(w, r, http.StatusOK, "profile", data)
}

func (s *Server) postDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.posts.Detail(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrNotFound) {
		s.notFound(w, r)
		return
	} else if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := s.newData(r)
	data.Post = detail.Post
	data.AuthorPosts = detail.AuthorPosts
	data.Count = detail.Count
	s.render(w, r, http.StatusOK, "post_detail", data)
}

// postInput reads the post form. Any other submitted field, author included, is ignored.
func postInput(r *http.Request) (forms.PostInput, error) {
	if err := r.ParseForm(); err != nil {
		return forms.PostInput{}, err
	}
	return forms.PostInput{
		Text:  r.PostForm.Get("text"),
		Group: r.PostForm.Get("group"),
	}, nil
}

func (s *Server) postCreate(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CurrentIdentity(r.Context())

	groups, err := s.posts.Groups(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data := s.newData(r)
	data.Groups = groups

	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "create_post", data)
		return
	}

	input, err := postInput(r)
	if err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	form, err := s.posts.Create(r.Context(), caller, input)
	if errors.Is(err, service.ErrUnauthenticated) {
		http.Redirect(w, r, middleware.LoginRedirect(s.loginURL, r.URL.RequestURI()), http.StatusFound)
		return
	} else if err != nil {
		s.serverError(w, r, err)
		return
	}

	if !form.Errors.Valid() {
		data.Input = form.Input
		data.Errors = form.Errors
		s.render(w, r, http.StatusOK, "create_post", data)
		return
	}

	http.Redirect(w, r, profileURL(caller.Username), http.StatusFound)
}

func (s *Server) postEdit(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CurrentIdentity(r.Context())
	rawID := chi.URLParam(r, "id")

	var (
		form *service.PostForm
		err  error
	)
	// existence and authorship are settled before the body is read
	form, err = s.posts.EditForm(r.Context(), caller, rawID)
	if err == nil && r.Method != http.MethodGet {
		input, perr := postInput(r)
		if perr != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}
		form, err = s.posts.Edit(r.Context(), caller, rawID, input)
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		s.notFound(w, r)
		return
	case errors.Is(err, service.ErrNotAuthor):
		http.Redirect(w, r, detailURL(rawID), http.StatusFound)
		return
	case errors.Is(err, service.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginRedirect(s.loginURL, r.URL.RequestURI()), http.StatusFound)
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}

	if r.Method != http.MethodGet && form.Errors.Valid() {
		http.Redirect(w, r, detailURL(rawID), http.StatusFound)
		return
	}

	groups, err := s.posts.Groups(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data := s.newData(r)
	data.Groups = groups
	data.Post = form.Post
	data.Input = form.Input
	data.Errors = form.Errors
	data.IsEdit = true
	s.render(w, r, http.StatusOK, "create_post", data)
}
