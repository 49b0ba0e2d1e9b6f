package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/yatube/yatube/internal/forms"
	"github.com/yatube/yatube/internal/middleware"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/monitoring"
	"github.com/yatube/yatube/internal/paginator"
	"github.com/yatube/yatube/internal/storage"
)

var (
	// ErrNotFound is returned when the requested group, author or post does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthor is returned when someone other than the author tries to edit a post.
	ErrNotAuthor = errors.New("only the author can edit this post")
	// ErrUnauthenticated is returned when an anonymous caller tries to write.
	ErrUnauthenticated = errors.New("authentication required")
)

// PostPage is one page of a feed.
type PostPage = paginator.Page[models.Post]

// GroupFeed is the paginated feed of a single group.
type GroupFeed struct {
	Group *models.Group
	Page  PostPage
}

// AuthorFeed is the paginated feed of a single author.
type AuthorFeed struct {
	Author *models.User
	Count  int
	Page   PostPage
}

// PostDetail is a post together with every post by the same author.
type PostDetail struct {
	Post        *models.Post
	AuthorPosts []models.Post
	Count       int
}

// PostForm is the state of a create or edit form after a submission.
// Errors is empty when the post was saved.
type PostForm struct {
	Post   *models.Post
	Input  forms.PostInput
	Errors forms.Errors
}

// PostService implements listing, detail and authoring of posts.
type PostService struct {
	store     storage.Store
	paginator paginator.Paginator
	logger    *slog.Logger
}

// NewPostService creates a new PostService with the given storage backend.
func NewPostService(store storage.Store, p paginator.Paginator, logger *slog.Logger) *PostService {
	if p.PageSize() <= 0 {
		p = paginator.New(paginator.DefaultPageSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{store: store, paginator: p, logger: logger}
}

// Index returns one page of every post, newest first.
func (s *PostService) Index(ctx context.Context, rawPage string) (PostPage, error) {
	return s.feed(ctx, storage.PostFilter{}, rawPage)
}

// GroupFeed returns one page of the group's posts.
func (s *PostService) GroupFeed(ctx context.Context, slug, rawPage string) (*GroupFeed, error) {
	group, err := s.store.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}

	page, err := s.feed(ctx, storage.PostFilter{GroupID: group.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: page}, nil
}

// AuthorFeed returns one page of the author's posts and their total count.
func (s *PostService) AuthorFeed(ctx context.Context, username, rawPage string) (*AuthorFeed, error) {
	author, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}

	page, err := s.feed(ctx, storage.PostFilter{AuthorID: author.ID}, rawPage)
	if err != nil {
		return nil, err
	}
	return &AuthorFeed{Author: author, Count: page.Count, Page: page}, nil
}

// Detail returns the post with the given ID and all posts by its author.
// A malformed ID is reported as ErrNotFound.
func (s *PostService) Detail(ctx context.Context, rawID string) (*PostDetail, error) {
	post, err := s.getPost(ctx, rawID)
	if err != nil {
		return nil, err
	}

	authorPosts, err := s.store.ListPosts(ctx, storage.PostFilter{AuthorID: post.AuthorID}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list author posts: %w", err)
	}
	return &PostDetail{Post: post, AuthorPosts: authorPosts, Count: len(authorPosts)}, nil
}

// Groups returns every group for the form's select box.
func (s *PostService) Groups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// Create validates the input and stores a new post written by caller.
// The author is always the caller. On validation failure the returned form
// carries the errors and nothing is stored.
func (s *PostService) Create(ctx context.Context, caller middleware.Identity, input forms.PostInput) (*PostForm, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}

	cleaned, errs, err := forms.ValidatePost(ctx, input, s.store)
	if err != nil {
		return nil, err
	}
	if !errs.Valid() {
		s.logger.Debug("Create post rejected", "user_id", caller.UserID, "errors", errs)
		return &PostForm{Input: input, Errors: errs}, nil
	}

	post := &models.Post{
		Text:     cleaned.Text,
		AuthorID: caller.UserID,
		GroupID:  cleaned.GroupID(),
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	monitoring.PostsCreated.Inc()

	s.logger.Info("Post created", "post_id", post.ID, "user_id", caller.UserID, "group_id", post.GroupID)
	return &PostForm{Post: post, Input: input, Errors: forms.Errors{}}, nil
}

// EditForm loads a post for editing by caller.
// Returns ErrNotFound for unknown posts and ErrNotAuthor when caller did not write it.
func (s *PostService) EditForm(ctx context.Context, caller middleware.Identity, rawID string) (*PostForm, error) {
	post, err := s.editable(ctx, caller, rawID)
	if err != nil {
		return nil, err
	}
	return &PostForm{
		Post:   post,
		Input:  forms.PostInput{Text: post.Text, Group: post.GroupID},
		Errors: forms.Errors{},
	}, nil
}

// Edit validates the input and updates the post's text and group.
// The authorship check runs before validation, so a non-author never
// mutates anything regardless of what was submitted.
func (s *PostService) Edit(ctx context.Context, caller middleware.Identity, rawID string, input forms.PostInput) (*PostForm, error) {
	post, err := s.editable(ctx, caller, rawID)
	if err != nil {
		return nil, err
	}

	cleaned, errs, err := forms.ValidatePost(ctx, input, s.store)
	if err != nil {
		return nil, err
	}
	if !errs.Valid() {
		return &PostForm{Post: post, Input: input, Errors: errs}, nil
	}

	post.Text = cleaned.Text
	post.GroupID = cleaned.GroupID()
	post.Group = cleaned.Group
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	monitoring.PostsEdited.Inc()

	s.logger.Info("Post edited", "post_id", post.ID, "user_id", caller.UserID)
	return &PostForm{Post: post, Input: input, Errors: forms.Errors{}}, nil
}

func (s *PostService) editable(ctx context.Context, caller middleware.Identity, rawID string) (*models.Post, error) {
	if !caller.Authenticated() {
		return nil, ErrUnauthenticated
	}
	post, err := s.getPost(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthor(caller.UserID) {
		s.logger.Warn("Edit by non-author refused", "post_id", post.ID, "user_id", caller.UserID)
		return post, ErrNotAuthor
	}
	return post, nil
}

func (s *PostService) getPost(ctx context.Context, rawID string) (*models.Post, error) {
	id, err := ParsePostID(rawID)
	if err != nil {
		return nil, err
	}
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

func (s *PostService) feed(ctx context.Context, filter storage.PostFilter, rawPage string) (PostPage, error) {
	count, err := s.store.CountPosts(ctx, filter)
	if err != nil {
		return PostPage{}, fmt.Errorf("failed to count posts: %w", err)
	}

	w := s.paginator.Window(count, rawPage)
	var posts []models.Post
	if w.Limit > 0 {
		posts, err = s.store.ListPosts(ctx, filter, w.Limit, w.Offset)
		if err != nil {
			return PostPage{}, fmt.Errorf("failed to list posts: %w", err)
		}
	}
	return paginator.NewPage(w, posts), nil
}

// ParsePostID parses a post ID from a URL segment. Anything that is not a
// positive integer is ErrNotFound.
func ParsePostID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("post %q: %w", raw, ErrNotFound)
	}
	return id, nil
}

// notFound maps storage.ErrNotFound to ErrNotFound and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
