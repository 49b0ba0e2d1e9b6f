package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
)

const groupColumns = `id, title, slug, description, created_at`

// CreateGroup inserts a new group into the database.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO groups (id, title, slug, description, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		group.ID, group.Title, group.Slug, group.Description, group.CreatedAt.UnixNano(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("group slug %q: %w", group.Slug, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a group by its ID.
func (s *Store) GetGroupByID(ctx context.Context, id string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+groupColumns+` FROM groups WHERE id = ?`), id)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetGroupBySlug retrieves a group by its slug.
func (s *Store) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+groupColumns+` FROM groups WHERE slug = ?`), slug)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %q: %w", slug, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroups retrieves all groups ordered by title.
func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM groups ORDER BY title, slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		var createdAt int64
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		g.CreatedAt = time.Unix(0, createdAt).UTC()
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

func scanGroup(row *sql.Row) (*models.Group, error) {
	group := &models.Group{}
	var createdAt int64
	if err := row.Scan(&group.ID, &group.Title, &group.Slug, &group.Description, &createdAt); err != nil {
		return nil, err
	}
	group.CreatedAt = time.Unix(0, createdAt).UTC()
	return group, nil
}
