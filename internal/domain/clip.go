package domain

import "time"

// ClipRect is a normalized position rectangle on a page. All four ratios are
// in [0,1]; the rectangle is present or absent as a whole.
type ClipRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Valid reports whether every ratio lies in [0,1].
func (r ClipRect) Valid() bool {
	for _, v := range [4]float64{r.X, r.Y, r.W, r.H} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Clip is a screenshot-style capture of a page region, stored as a data-URI
// encoded image with an optional note and position rectangle.
type Clip struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Page      int       `json:"page"`
	Image     string    `json:"image"` // data-URI payload
	Note      string    `json:"note,omitempty"`
	Rect      *ClipRect `json:"rect,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
