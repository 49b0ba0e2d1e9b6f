// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/yatube/yatube/internal/models"
)

var (
	// ErrNotFound is wrapped by every lookup that matches no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique username or slug is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// PostFilter scopes a post listing. Zero value means all posts.
type PostFilter struct {
	AuthorID string
	GroupID  string
}

// Store defines the interface for blog storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. Returns ErrAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateGroup persists a new group. Returns ErrAlreadyExists if the slug is taken.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroupByID retrieves a group by ID.
	GetGroupByID(ctx context.Context, id string) (*models.Group, error)

	// GetGroupBySlug retrieves a group by slug.
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)

	// ListGroups returns every group ordered by title.
	ListGroups(ctx context.Context) ([]models.Group, error)

	// CreatePost persists a new post.
	// The post.ID and post.CreatedAt fields are populated by the store.
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost retrieves a post with its author and group.
	GetPost(ctx context.Context, id int64) (*models.Post, error)

	// UpdatePost writes the post's text and group. Author and creation time are never changed.
	UpdatePost(ctx context.Context, post *models.Post) error

	// CountPosts returns the number of posts matching the filter.
	CountPosts(ctx context.Context, filter PostFilter) (int, error)

	// ListPosts returns posts matching the filter, newest first.
	// A limit of zero or less returns every matching post.
	ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
