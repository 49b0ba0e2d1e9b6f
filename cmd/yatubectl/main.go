// yatubectl administers a Yatube database: it applies the schema, creates
// users and groups (groups have no web form) and seeds demo content.
//
// Usage:
//
//	yatubectl migrate
//	yatubectl create-user -username leo -password secret123
//	yatubectl create-group -title Cats -slug cats -description "All about cats"
//	yatubectl seed -users 5 -posts 100
//
// The database is chosen with DB_DRIVER and DB_DSN, as for the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/config"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage/sqlstore"
	"github.com/yatube/yatube/pkg/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: yatubectl <migrate|create-user|create-group|seed> [flags]")
}

func main() {
	logging.Setup()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch command {
	case "migrate":
		// opening the store applies the schema
		store, err := sqlstore.New(ctx, cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		slog.Info("Schema is up to date", "driver", cfg.DBDriver)
		return nil
	case "create-user":
		return createUser(ctx, cfg, args)
	case "create-group":
		return createGroup(ctx, cfg, args)
	case "seed":
		return seed(ctx, cfg, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func createUser(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	username := fs.String("username", "", "username (required)")
	password := fs.String("password", "", "password, at least 8 characters (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := sqlstore.New(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := auth.NewPasswordAuthenticator(store).Register(ctx, *username, *password)
	if err != nil {
		return err
	}
	slog.Info("User created", "user_id", user.ID, "username", user.Username)
	return nil
}

func createGroup(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("create-group", flag.ContinueOnError)
	title := fs.String("title", "", "group title (required)")
	slug := fs.String("slug", "", "unique URL slug (required)")
	description := fs.String("description", "", "group description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*title) == "" || strings.TrimSpace(*slug) == "" {
		return fmt.Errorf("title and slug are required")
	}

	store, err := sqlstore.New(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	group := &models.Group{Title: *title, Slug: *slug, Description: *description}
	if err := store.CreateGroup(ctx, group); err != nil {
		return err
	}
	slog.Info("Group created", "group_id", group.ID, "slug", group.Slug)
	return nil
}

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do
eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam quis nostrud`)

// seed creates demo users, groups and posts spread over the last month.
func seed(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	numUsers := fs.Int("users", 3, "number of users")
	numGroups := fs.Int("groups", 2, "number of groups")
	numPosts := fs.Int("posts", 30, "number of posts")
	password := fs.String("password", "password123", "password for every seeded user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *numUsers < 1 {
		return fmt.Errorf("at least one user is required")
	}

	store, err := sqlstore.New(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	suffix := time.Now().Format("150405")
	start := time.Now()

	authenticator := auth.NewPasswordAuthenticator(store)
	users := make([]*models.User, 0, *numUsers)
	for i := 0; i < *numUsers; i++ {
		user, err := authenticator.Register(ctx, fmt.Sprintf("user%d_%s", i+1, suffix), *password)
		if err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		users = append(users, user)
	}

	groups := make([]*models.Group, 0, *numGroups)
	for i := 0; i < *numGroups; i++ {
		group := &models.Group{
			Title:       fmt.Sprintf("Group %d", i+1),
			Slug:        fmt.Sprintf("group-%d-%s", i+1, suffix),
			Description: "Seeded group",
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			return fmt.Errorf("failed to seed group: %w", err)
		}
		groups = append(groups, group)
	}

	monthAgo := time.Now().Add(-30 * 24 * time.Hour)
	for i := 0; i < *numPosts; i++ {
		n := 5 + r.Intn(20)
		text := make([]string, n)
		for j := range text {
			text[j] = words[r.Intn(len(words))]
		}

		post := &models.Post{
			Text:      strings.Join(text, " "),
			AuthorID:  users[r.Intn(len(users))].ID,
			CreatedAt: monthAgo.Add(time.Duration(r.Int63n(int64(30 * 24 * time.Hour)))).UTC(),
		}
		if len(groups) > 0 && r.Intn(3) > 0 {
			post.GroupID = groups[r.Intn(len(groups))].ID
		}
		if err := store.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("failed to seed post: %w", err)
		}
	}

	slog.Info("Seed complete",
		"users", len(users),
		"groups", len(groups),
		"posts", *numPosts,
		"duration", time.Since(start).Truncate(time.Millisecond),
	)
	return nil
}
