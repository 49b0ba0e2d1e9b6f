// Package forms validates submitted form data into cleaned values or
// field-level errors.
package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/storage"
)

const (
	MsgRequired      = "This field is required."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Errors maps a field name to its validation messages. The empty key holds
// errors not tied to a single field.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the first message for field, or "".
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Has reports whether field has any message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Valid reports whether no errors were recorded.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// PostInput is the raw submission of the post form.
type PostInput struct {
	Text  string
	Group string
}

// CleanedPost is a validated post form.
type CleanedPost struct {
	Text  string
	Group *models.Group
}

// GroupID returns the chosen group's ID, or "" when none was chosen.
func (c CleanedPost) GroupID() string {
	if c.Group == nil {
		return ""
	}
	return c.Group.ID
}

// GroupLookup resolves group choices.
type GroupLookup interface {
	GetGroupByID(ctx context.Context, id string) (*models.Group, error)
}

// ValidatePost checks the post form. Text is required after trimming
// surrounding whitespace; group is optional but must name an existing group.
// A non-nil error is returned only when the lookup itself fails.
func ValidatePost(ctx context.Context, input PostInput, groups GroupLookup) (CleanedPost, Errors, error) {
	var cleaned CleanedPost
	errs := Errors{}

	cleaned.Text = strings.TrimSpace(input.Text)
	if cleaned.Text == "" {
		errs.Add("text", MsgRequired)
	}

	if groupID := strings.TrimSpace(input.Group); groupID != "" {
		group, err := groups.GetGroupByID(ctx, groupID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			errs.Add("group", MsgInvalidChoice)
		case err != nil:
			return CleanedPost{}, nil, fmt.Errorf("failed to look up group: %w", err)
		default:
			cleaned.Group = group
		}
	}

	return cleaned, errs, nil
}
