package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
	"github.com/tsuji1/hep-reader-sub001/internal/id"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

// BookmarkService manages per-book bookmarks.
type BookmarkService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewBookmarkService creates a bookmark service.
func NewBookmarkService(store *sqlite.Store, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{store: store, logger: logger}
}

// CreateBookmark adds a bookmark on one page of a book.
func (s *BookmarkService) CreateBookmark(ctx context.Context, bookID string, page int, note string) (*domain.Bookmark, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := validatePage(page, book); err != nil {
		return nil, err
	}

	bmID, err := id.Generate(id.PrefixBookmark)
	if err != nil {
		return nil, err
	}
	bm := &domain.Bookmark{
		ID:        bmID,
		BookID:    bookID,
		Page:      page,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateBookmark(ctx, bm); err != nil {
		return nil, err
	}
	return bm, nil
}

// ListBookmarks returns a book's bookmarks in page order.
func (s *BookmarkService) ListBookmarks(ctx context.Context, bookID string) ([]*domain.Bookmark, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.store.ListBookmarks(ctx, bookID)
}

// DeleteBookmark removes a bookmark.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	return s.store.DeleteBookmark(ctx, bookmarkID)
}

// ProgressService tracks the reader's position per book.
type ProgressService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewProgressService creates a progress service.
func NewProgressService(store *sqlite.Store, logger *slog.Logger) *ProgressService {
	return &ProgressService{store: store, logger: logger}
}

// GetProgress returns the reading position, or NotFound when the book has
// never been opened.
func (s *ProgressService) GetProgress(ctx context.Context, bookID string) (*domain.ReadingProgress, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.store.GetProgress(ctx, bookID)
}

// UpdateProgress records the current page. The book keeps a single
// progress row; updating also bumps its recency.
func (s *ProgressService) UpdateProgress(ctx context.Context, bookID string, page int) (*domain.ReadingProgress, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := validatePage(page, book); err != nil {
		return nil, err
	}

	p := &domain.ReadingProgress{
		BookID:    bookID,
		Page:      page,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertProgress(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ClipService manages rectangular clips captured from book pages.
type ClipService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewClipService creates a clip service.
func NewClipService(store *sqlite.Store, logger *slog.Logger) *ClipService {
	return &ClipService{store: store, logger: logger}
}

// CreateClip stores a captured region. image is the rendered capture as a
// data URI; rect is the page-relative capture region, optional for clips
// captured without geometry.
func (s *ClipService) CreateClip(ctx context.Context, bookID string, page int, image, note string, rect *domain.ClipRect) (*domain.Clip, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := validatePage(page, book); err != nil {
		return nil, err
	}
	if image == "" {
		return nil, errors.Validation("clip image is required")
	}
	if rect != nil && !rect.Valid() {
		return nil, errors.Validation("clip rect must have positive size and non-negative origin")
	}

	clipID, err := id.Generate(id.PrefixClip)
	if err != nil {
		return nil, err
	}
	c := &domain.Clip{
		ID:        clipID,
		BookID:    bookID,
		Page:      page,
		Image:     image,
		Note:      note,
		Rect:      rect,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateClip(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListClips returns a book's clips in page order.
func (s *ClipService) ListClips(ctx context.Context, bookID string) ([]*domain.Clip, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.store.ListClips(ctx, bookID)
}

// DeleteClip removes a clip.
func (s *ClipService) DeleteClip(ctx context.Context, clipID string) error {
	return s.store.DeleteClip(ctx, clipID)
}

// validatePage checks a page number against a book's extent. PDF books
// are exempt from the upper bound while their provisional count stands.
func validatePage(page int, book *domain.Book) error {
	if page < 1 {
		return errors.Validation("page must be >= 1")
	}
	if book.Type != domain.BookTypePDF && page > book.TotalPages {
		return errors.Validationf("page %d is beyond the book's %d pages", page, book.TotalPages)
	}
	return nil
}
