package sqlstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "yatube-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := NewSQLite(context.Background(), filepath.Join(tempDir, "data", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	author := &models.User{Username: "auth", PasswordHash: "x"}
	if err := store.CreateUser(ctx, author); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	other := &models.User{Username: "test_user", PasswordHash: "x"}
	if err := store.CreateUser(ctx, other); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	group := &models.Group{Title: "Test group", Slug: "test_slug", Description: "Test description"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		if author.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if author.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Username: "auth", PasswordHash: "y"})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		err := store.CreateGroup(ctx, &models.Group{Title: "Copy", Slug: "test_slug"})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("lookups by username and slug", func(t *testing.T) {
		u, err := store.GetUserByUsername(ctx, "auth")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}
		if u.ID != author.ID {
			t.Errorf("ID mismatch: got %s, want %s", u.ID, author.ID)
		}

		byID, err := store.GetUserByID(ctx, author.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Username != "auth" {
			t.Errorf("Username mismatch: got %s", byID.Username)
		}

		g, err := store.GetGroupBySlug(ctx, "test_slug")
		if err != nil {
			t.Fatalf("GetGroupBySlug failed: %v", err)
		}
		if g.Description != "Test description" {
			t.Errorf("Description mismatch: got %q", g.Description)
		}

		g2, err := store.GetGroupByID(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroupByID failed: %v", err)
		}
		if g2.Slug != "test_slug" {
			t.Errorf("Slug mismatch: got %q", g2.Slug)
		}
	})

	t.Run("missing rows wrap ErrNotFound", func(t *testing.T) {
		if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByUsername: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUserByID: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetGroupBySlug(ctx, "unknown_slug"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGroupBySlug: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetGroupByID(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGroupByID: expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetPost(ctx, 424242); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetPost: expected ErrNotFound, got %v", err)
		}
		err := store.UpdatePost(ctx, &models.Post{ID: 424242, Text: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdatePost: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreatePost and GetPost round trip", func(t *testing.T) {
		post := &models.Post{Text: "Group post", AuthorID: author.ID, GroupID: group.ID}
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
		if post.ID == 0 {
			t.Fatal("Expected post ID to be assigned")
		}

		got, err := store.GetPost(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetPost failed: %v", err)
		}
		if got.Text != "Group post" {
			t.Errorf("Text mismatch: got %q", got.Text)
		}
		if got.Author.Username != "auth" {
			t.Errorf("Author mismatch: got %q", got.Author.Username)
		}
		if got.Group == nil || got.Group.Slug != "test_slug" {
			t.Errorf("Group not loaded: %+v", got.Group)
		}
		if !got.CreatedAt.Equal(post.CreatedAt) {
			t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, post.CreatedAt)
		}
	})

	t.Run("CreatePost without author fails", func(t *testing.T) {
		if err := store.CreatePost(ctx, &models.Post{Text: "orphan"}); err == nil {
			t.Error("expected error for post without author")
		}
	})

	t.Run("UpdatePost changes text and group only", func(t *testing.T) {
		post := &models.Post{Text: "before", AuthorID: author.ID}
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}

		update := &models.Post{ID: post.ID, Text: "after", GroupID: group.ID, AuthorID: other.ID}
		if err := store.UpdatePost(ctx, update); err != nil {
			t.Fatalf("UpdatePost failed: %v", err)
		}

		got, err := store.GetPost(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetPost failed: %v", err)
		}
		if got.Text != "after" || got.GroupID != group.ID {
			t.Errorf("update not persisted: text=%q group=%q", got.Text, got.GroupID)
		}
		if got.AuthorID != author.ID {
			t.Errorf("author changed to %s", got.AuthorID)
		}

		update.GroupID = ""
		if err := store.UpdatePost(ctx, update); err != nil {
			t.Fatalf("UpdatePost failed: %v", err)
		}
		got, _ = store.GetPost(ctx, post.ID)
		if got.Group != nil || got.GroupID != "" {
			t.Errorf("group not cleared: %+v", got.Group)
		}
	})
}

func TestListPosts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	author := &models.User{Username: "auth", PasswordHash: "x"}
	other := &models.User{Username: "other", PasswordHash: "x"}
	for _, u := range []*models.User{author, other} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}
	group := &models.Group{Title: "G", Slug: "g"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		post := &models.Post{
			Text:      string(rune('A' + i)),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i%2 == 0 {
			post.GroupID = group.ID
		}
		if i >= 10 {
			post.AuthorID = other.ID
		}
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}
	// same timestamp as the newest post; id decides the order
	tie := &models.Post{Text: "tie", AuthorID: other.ID, CreatedAt: base.Add(12 * time.Minute)}
	if err := store.CreatePost(ctx, tie); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	tests := []struct {
		name      string
		filter    storage.PostFilter
		limit     int
		offset    int
		wantCount int
		wantLen   int
		wantFirst string
	}{
		{name: "all, first page", limit: 10, wantCount: 14, wantLen: 10, wantFirst: "tie"},
		{name: "all, second page", limit: 10, offset: 10, wantCount: 14, wantLen: 4, wantFirst: "D"},
		{name: "all, unlimited", limit: 0, wantCount: 14, wantLen: 14, wantFirst: "tie"},
		{name: "by author", filter: storage.PostFilter{AuthorID: author.ID}, wantCount: 10, wantLen: 10, wantFirst: "J"},
		{name: "by group", filter: storage.PostFilter{GroupID: group.ID}, wantCount: 7, wantLen: 7, wantFirst: "M"},
		{name: "by author and group", filter: storage.PostFilter{AuthorID: other.ID, GroupID: group.ID}, wantCount: 2, wantLen: 2, wantFirst: "M"},
		{name: "unknown group", filter: storage.PostFilter{GroupID: "missing"}, wantCount: 0, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := store.CountPosts(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountPosts failed: %v", err)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}

			posts, err := store.ListPosts(ctx, tt.filter, tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("ListPosts failed: %v", err)
			}
			if len(posts) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(posts), tt.wantLen)
			}
			if tt.wantLen > 0 && posts[0].Text != tt.wantFirst {
				t.Errorf("first = %q, want %q", posts[0].Text, tt.wantFirst)
			}
			for i := 1; i < len(posts); i++ {
				prev, cur := posts[i-1], posts[i]
				if cur.CreatedAt.After(prev.CreatedAt) ||
					(cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID) {
					t.Errorf("posts not newest-first at %d: %v/%d then %v/%d",
						i, prev.CreatedAt, prev.ID, cur.CreatedAt, cur.ID)
				}
			}
		})
	}
}

func TestListGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groups, err := store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(groups))
	}

	for _, g := range []*models.Group{{Title: "Zebra", Slug: "z"}, {Title: "Apple", Slug: "a"}} {
		if err := store.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}
	groups, err = store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 || groups[0].Title != "Apple" {
		t.Errorf("unexpected order: %+v", groups)
	}
}

func TestRebind(t *testing.T) {
	pg := &Store{dialect: dialects[DriverPostgres]}
	got := pg.rebind("SELECT * FROM posts WHERE a = ? AND b = ? LIMIT ?")
	want := "SELECT * FROM posts WHERE a = $1 AND b = $2 LIMIT $3"
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}

	lite := &Store{dialect: dialects[DriverSQLite]}
	if q := "SELECT ?"; lite.rebind(q) != q {
		t.Errorf("sqlite rebind should be identity")
	}
}

func TestNewUnsupportedDriver(t *testing.T) {
	if _, err := New(context.Background(), "mysql", "x"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
