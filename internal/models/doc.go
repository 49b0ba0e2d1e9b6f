// Package models defines the core domain models for Yatube.
//
// # Models
//
//   - User: a registered author, identified by a unique username
//   - Group: a named topic posts can be filed under, addressed by its slug
//   - Post: a text entry written by exactly one user, optionally filed under one group
//
// # Design Principles
//
//  1. Relationships are stored as ID fields; the store fills the embedded
//     Author and Group values when it loads a post for display.
//  2. Listing order is part of the model: newest first, ties broken by ID.
//  3. Authorship is fixed at creation; only text and group can change.
package models
