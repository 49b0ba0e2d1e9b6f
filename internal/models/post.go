package models

import "time"

// Post is a text entry written by a user.
type Post struct {
	// ID is assigned by the store at creation.
	ID int64

	// Text is the body of the post. Never empty.
	Text string

	// CreatedAt is set once at creation and defines listing order.
	CreatedAt time.Time

	// AuthorID references the owning User. Immutable after creation.
	AuthorID string

	// GroupID references the Group the post is filed under, empty when none.
	GroupID string

	// Author and Group are populated by the store on reads.
	Author User
	Group  *Group
}

// HasGroup reports whether the post is filed under a group.
func (p *Post) HasGroup() bool {
	return p.GroupID != ""
}

// IsAuthor reports whether userID wrote the post.
func (p *Post) IsAuthor(userID string) bool {
	return userID != "" && p.AuthorID == userID
}
