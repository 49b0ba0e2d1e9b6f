package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
)

const postSelect = `
	SELECT p.id, p.text, p.created_at, p.author_id,
	       u.username, u.created_at,
	       g.id, g.title, g.slug, g.description, g.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

// newest first; id breaks ties between posts created in the same instant
const postOrder = ` ORDER BY p.created_at DESC, p.id DESC`

type scanner interface {
	Scan(dest ...any) error
}

// CreatePost persists a new post and fills in its ID and CreatedAt.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if post.AuthorID == "" {
		return errors.New("failed to create post: author is required")
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO posts (text, created_at, author_id, group_id)
		VALUES (?, ?, ?, ?)
		RETURNING id`),
		post.Text, post.CreatedAt.UnixNano(), post.AuthorID, nullable(post.GroupID),
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by ID with its author and group.
func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(postSelect+` WHERE p.id = ?`), id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// UpdatePost writes the mutable fields of a post: text and group.
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE posts SET text = ?, group_id = ? WHERE id = ?`),
		post.Text, nullable(post.GroupID), post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("post %d: %w", post.ID, storage.ErrNotFound)
	}
	return nil
}

// CountPosts returns the number of posts matching the filter.
func (s *Store) CountPosts(ctx context.Context, filter storage.PostFilter) (int, error) {
	where, args := filterClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM posts p`+where), args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// ListPosts returns posts matching the filter, newest first.
func (s *Store) ListPosts(ctx context.Context, filter storage.PostFilter, limit, offset int) ([]models.Post, error) {
	where, args := filterClause(filter)
	query := postSelect + where + postOrder
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func filterClause(filter storage.PostFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.AuthorID != "" {
		conds = append(conds, "p.author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if filter.GroupID != "" {
		conds = append(conds, "p.group_id = ?")
		args = append(args, filter.GroupID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanPost(row scanner) (*models.Post, error) {
	var (
		post          models.Post
		createdAt     int64
		userCreatedAt int64
		groupID       sql.NullString
		groupTitle    sql.NullString
		groupSlug     sql.NullString
		groupDesc     sql.NullString
		groupCreated  sql.NullInt64
	)
	err := row.Scan(
		&post.ID, &post.Text, &createdAt, &post.AuthorID,
		&post.Author.Username, &userCreatedAt,
		&groupID, &groupTitle, &groupSlug, &groupDesc, &groupCreated,
	)
	if err != nil {
		return nil, err
	}

	post.CreatedAt = time.Unix(0, createdAt).UTC()
	post.Author.ID = post.AuthorID
	post.Author.CreatedAt = time.Unix(0, userCreatedAt).UTC()

	if groupID.Valid {
		post.GroupID = groupID.String
		post.Group = &models.Group{
			ID:          groupID.String,
			Title:       groupTitle.String,
			Slug:        groupSlug.String,
			Description: groupDesc.String,
			CreatedAt:   time.Unix(0, groupCreated.Int64).UTC(),
		}
	}
	return &post, nil
}

// nullable maps an empty ID to SQL NULL.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}
