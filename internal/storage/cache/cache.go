// Package cache wraps a storage.Store with a Redis read-through cache for
// single-object lookups. Listings and counts always hit the wrapped store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
)

// DefaultTTL is used when New is given a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// key prefixes keep cached objects apart from anything else in the same redis
const (
	postPrefix  = "yatube:post:"
	groupPrefix = "yatube:group:"
)

var _ storage.Store = (*Store)(nil)

// Store caches GetPost and GetGroupBySlug. Redis failures are logged and
// fall through to the wrapped store.
type Store struct {
	storage.Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps next with a cache backed by client.
func New(next storage.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		Store:  next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetPost returns the cached post or loads it and fills the cache.
func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	key := postKey(id)
	var post models.Post
	if s.load(ctx, key, &post) {
		return &post, nil
	}

	loaded, err := s.Store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, loaded)
	return loaded, nil
}

// UpdatePost writes through and drops the cached copy.
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	if err := s.Store.UpdatePost(ctx, post); err != nil {
		return err
	}
	s.evict(ctx, postKey(post.ID))
	return nil
}

// GetGroupBySlug returns the cached group or loads it and fills the cache.
func (s *Store) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	key := groupPrefix + slug
	var group models.Group
	if s.load(ctx, key, &group) {
		return &group, nil
	}

	loaded, err := s.Store.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, loaded)
	return loaded, nil
}

// Ping checks both redis and the wrapped store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return s.Store.Ping(ctx)
}

// Close closes the redis client and the wrapped store.
func (s *Store) Close() error {
	return errors.Join(s.client.Close(), s.Store.Close())
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		s.logger.Warn("Cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(value, dst); err != nil {
		s.logger.Warn("Cache entry corrupt", "key", key, "error", err)
		s.evict(ctx, key)
		return false
	}
	return true
}

func (s *Store) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (s *Store) evict(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("Cache evict failed", "key", key, "error", err)
	}
}

func postKey(id int64) string {
	return postPrefix + strconv.FormatInt(id, 10)
}
