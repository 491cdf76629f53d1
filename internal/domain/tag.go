package domain

import "time"

// Tag is a user-defined label for organizing books.
// Names are unique across the library.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// BookTag represents the many-to-many relationship between books and tags.
// Deleting either side cascades the association away.
type BookTag struct {
	BookID    string    `json:"book_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
