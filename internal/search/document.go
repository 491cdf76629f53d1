// Package search provides full-text search over book pages using Bleve.
// Each page is indexed as one document so results land the reader on the
// matching page, not just the matching book.
package search

import "fmt"

// PageDocument is one indexed page.
type PageDocument struct {
	ID        string `json:"id"`
	BookID    string `json:"book_id"`
	BookTitle string `json:"book_title"`
	BookType  string `json:"book_type"`
	Page      int    `json:"page"`
	Text      string `json:"text"`
}

// DocID builds the index key for one page of a book.
func DocID(bookID string, page int) string {
	return fmt.Sprintf("%s:%d", bookID, page)
}

// ToMap converts the document to a map with the lowercase field names the
// index mapping uses; Bleve would otherwise index by Go field name.
func (d *PageDocument) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         d.ID,
		"book_id":    d.BookID,
		"book_title": d.BookTitle,
		"book_type":  d.BookType,
		"page":       d.Page,
		"text":       d.Text,
	}
}
