package domain

import "time"

// Bookmark marks a page in a book, optionally annotated with a note.
// A book may carry many bookmarks, including several on the same page.
type Bookmark struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Page      int       `json:"page"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReadingProgress tracks the current page of a book. There is exactly one
// row per book; writes upsert and also touch the owning book so
// recency-ordered listings reflect reading activity.
type ReadingProgress struct {
	BookID    string    `json:"book_id"`
	Page      int       `json:"page"`
	UpdatedAt time.Time `json:"updated_at"`
}
