package models

import "time"

// Group is a topic posts can be filed under.
// Groups are administered out of band; the web surface only reads them.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Title is the human-readable name (e.g., "Cats", "Travel notes").
	Title string

	// Slug is the unique URL-safe identifier used in /group/{slug}/.
	Slug string

	// Description is free text shown on the group feed.
	Description string

	// CreatedAt is when the group was created.
	CreatedAt time.Time
}
