// Package service provides the business logic layer tying the catalog
// store, content store, and search index together.
package service

import (
	"context"
	"log/slog"

	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
	"github.com/tsuji1/hep-reader-sub001/internal/normalize"
	"github.com/tsuji1/hep-reader-sub001/internal/search"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

// BookService manages the library: listing, metadata updates, page and
// media retrieval, and deletion across all three stores.
type BookService struct {
	store   *sqlite.Store
	content *content.Store
	index   *search.Index
	logger  *slog.Logger
}

// NewBookService creates a book service.
func NewBookService(store *sqlite.Store, contentStore *content.Store, index *search.Index, logger *slog.Logger) *BookService {
	return &BookService{
		store:   store,
		content: contentStore,
		index:   index,
		logger:  logger,
	}
}

// ListBooks returns all books, most recently updated first.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx)
}

// GetBook retrieves one book.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// BookUpdate is a partial metadata update; nil fields are left unchanged.
type BookUpdate struct {
	Title      *string
	Language   *string
	TotalPages *int
}

// UpdateBook applies a partial update. The total page count is how the
// client-side PDF renderer reports the real count after layout.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, update BookUpdate) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, errors.Validation("title cannot be empty")
		}
		book.Title = *update.Title
	}
	if update.Language != nil {
		if code := normalize.LanguageCode(*update.Language); code != "" {
			book.Language = code
		} else {
			return nil, errors.Validationf("unrecognized language %q", *update.Language)
		}
	}
	if update.TotalPages != nil {
		if *update.TotalPages < 1 {
			return nil, errors.Validation("total pages must be >= 1")
		}
		book.TotalPages = *update.TotalPages
	}

	book.Touch()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a book from the catalog, its content directory, and
// the search index. The catalog row goes first; orphaned files are
// preferable to a catalog entry with no content.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}
	if err := s.content.DeleteBook(bookID); err != nil {
		s.logger.Warn("failed to remove book content", "book_id", bookID, "error", err)
	}
	if err := s.index.DeleteBook(bookID, book.TotalPages); err != nil {
		s.logger.Warn("failed to deindex book", "book_id", bookID, "error", err)
	}

	s.logger.Info("book deleted", "book_id", bookID, "title", book.Title)
	return nil
}

// GetPage returns one page document. The page must exist in the book's
// content directory; PDF books have no page documents.
func (s *BookService) GetPage(ctx context.Context, bookID string, page int) ([]byte, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.content.ReadPage(bookID, page)
}

// GetPageIndex returns the book's page-index artifact.
func (s *BookService) GetPageIndex(ctx context.Context, bookID string) (*domain.PageIndex, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.content.ReadIndex(bookID)
}

// GetTOC returns the book's table-of-contents fragment.
func (s *BookService) GetTOC(ctx context.Context, bookID string) ([]byte, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.content.ReadTOC(bookID)
}

// GetMedia returns one media file from the book's media directory.
func (s *BookService) GetMedia(ctx context.Context, bookID, name string) ([]byte, error) {
	return s.content.ReadMedia(bookID, name)
}

// GetCover returns the book's cover image.
func (s *BookService) GetCover(ctx context.Context, bookID string) ([]byte, error) {
	return s.content.ReadCover(bookID)
}

// GetOriginal returns the stored source file and its extension. Used to
// serve PDFs to the client-side renderer.
func (s *BookService) GetOriginal(ctx context.Context, bookID string) ([]byte, string, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return nil, "", err
	}
	return s.content.ReadOriginal(bookID)
}

// indexBookPages registers a book's page texts with the search index.
// Index failures degrade to an unindexed book, never a failed import.
func indexBookPages(index *search.Index, logger *slog.Logger, book *domain.Book, texts []string) {
	docs := make([]*search.PageDocument, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			continue
		}
		docs = append(docs, &search.PageDocument{
			ID:        search.DocID(book.ID, i+1),
			BookID:    book.ID,
			BookTitle: book.Title,
			BookType:  string(book.Type),
			Page:      i + 1,
			Text:      text,
		})
	}
	if len(docs) == 0 {
		return
	}
	if err := index.IndexBookPages(docs); err != nil {
		logger.Warn("failed to index book pages", "book_id", book.ID, "error", err)
	}
}
