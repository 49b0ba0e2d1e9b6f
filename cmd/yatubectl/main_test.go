package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/yatube/yatube/internal/storage"
	"github.com/yatube/yatube/internal/storage/sqlstore"
)

func TestCommands(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", dsn)
	ctx := context.Background()

	steps := []struct {
		command string
		args    []string
		wantErr bool
	}{
		{"migrate", nil, false},
		{"create-user", []string{"-username", "leo", "-password", "password123"}, false},
		{"create-user", []string{"-username", "leo", "-password", "password123"}, true},
		{"create-group", []string{"-title", "Cats", "-slug", "cats"}, false},
		{"create-group", []string{"-title", "Cats"}, true},
		{"seed", []string{"-users", "2", "-groups", "1", "-posts", "12", "-password", "password123"}, false},
		{"explode", nil, true},
	}
	for _, step := range steps {
		err := run(ctx, step.command, step.args)
		if (err != nil) != step.wantErr {
			t.Fatalf("%s %v: err = %v, wantErr %v", step.command, step.args, err, step.wantErr)
		}
	}

	store, err := sqlstore.NewSQLite(ctx, dsn)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer store.Close()

	if _, err := store.GetGroupBySlug(ctx, "cats"); err != nil {
		t.Errorf("group not created: %v", err)
	}
	if _, err := store.GetUserByUsername(ctx, "leo"); err != nil {
		t.Errorf("user not created: %v", err)
	}
	n, err := store.CountPosts(ctx, storage.PostFilter{})
	if err != nil || n != 12 {
		t.Errorf("CountPosts = %d, %v; want 12", n, err)
	}
}
