// Package domain contains the core business entities and domain logic for the HepReader library.
package domain

import "time"

// BookType categorizes how a book entered the library.
type BookType string

// Supported book types.
const (
	BookTypeEPUB    BookType = "epub"
	BookTypePDF     BookType = "pdf"
	BookTypeWebsite BookType = "website"
)

// Valid reports whether t is a known book type.
func (t BookType) Valid() bool {
	switch t {
	case BookTypeEPUB, BookTypePDF, BookTypeWebsite:
		return true
	}
	return false
}

// Book represents one imported work in the library.
//
// TotalPages is always >= 1. For PDF books it is a provisional 1 at import
// time; the client-side renderer reports the real count via update once the
// document has been laid out.
type Book struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	OriginalFilename *string   `json:"original_filename,omitempty"` // nil for web-saved articles
	TotalPages       int       `json:"total_pages"`
	Type             BookType  `json:"type"`
	Language         string    `json:"language"`
	SourceURL        *string   `json:"source_url,omitempty"` // website books only
	Description      string    `json:"description,omitempty"`
	CoverBlurhash    string    `json:"cover_blurhash,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// LastReadPage is derived by joining reading progress; nil when the book
	// has never been opened.
	LastReadPage *int `json:"last_read_page,omitempty"`
}

// Touch updates the UpdatedAt timestamp.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// IsWebsite reports whether the book was saved from a URL.
func (b *Book) IsWebsite() bool {
	return b.Type == BookTypeWebsite
}

// PageIndex is the content-store artifact recording a book's page sequence.
// Page identifiers are the content-store filenames in reading order.
type PageIndex struct {
	Total int      `json:"total"`
	Pages []string `json:"pages"`
}
