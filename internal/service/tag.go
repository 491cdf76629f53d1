package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
	"github.com/tsuji1/hep-reader-sub001/internal/id"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

// TagService manages tags and their book associations.
type TagService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewTagService creates a tag service.
func NewTagService(store *sqlite.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// CreateTag adds a tag. Names are unique across the library.
func (s *TagService) CreateTag(ctx context.Context, name, color string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("tag name cannot be empty")
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.Tag{
		ID:        tagID,
		Name:      name,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// TagUpdate is a partial tag update; nil fields are left unchanged.
type TagUpdate struct {
	Name  *string
	Color *string
}

// UpdateTag applies a partial update.
func (s *TagService) UpdateTag(ctx context.Context, tagID string, update TagUpdate) (*domain.Tag, error) {
	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, errors.Validation("tag name cannot be empty")
		}
		t.Name = name
	}
	if update.Color != nil {
		t.Color = *update.Color
	}

	t.Touch()
	if err := s.store.UpdateTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTag removes a tag and all of its book associations.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	return s.store.DeleteTag(ctx, tagID)
}

// TagBook attaches a tag to a book. Re-attaching is a no-op.
func (s *TagService) TagBook(ctx context.Context, bookID, tagID string) error {
	return s.store.AddBookTag(ctx, bookID, tagID, time.Now().UTC())
}

// UntagBook detaches a tag from a book.
func (s *TagService) UntagBook(ctx context.Context, bookID, tagID string) error {
	return s.store.RemoveBookTag(ctx, bookID, tagID)
}

// ListTagsForBook returns a book's tags ordered by name.
func (s *TagService) ListTagsForBook(ctx context.Context, bookID string) ([]*domain.Tag, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.store.ListTagsForBook(ctx, bookID)
}

// ListBooksForTag returns the books carrying a tag, most recently
// updated first.
func (s *TagService) ListBooksForTag(ctx context.Context, tagID string) ([]*domain.Book, error) {
	if _, err := s.store.GetTag(ctx, tagID); err != nil {
		return nil, err
	}
	bookIDs, err := s.store.ListBookIDsForTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	books := make([]*domain.Book, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		book, err := s.store.GetBook(ctx, bookID)
		if err != nil {
			s.logger.Warn("skipping missing book in tag listing", "tag_id", tagID, "book_id", bookID, "error", err)
			continue
		}
		books = append(books, book)
	}
	return books, nil
}
