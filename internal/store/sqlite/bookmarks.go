package sqlite

import (
	"context"
	"database/sql"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

const bookmarkColumns = `id, book_id, page, note, created_at`

func scanBookmark(scanner interface{ Scan(dest ...any) error }) (*domain.Bookmark, error) {
	var bm domain.Bookmark
	var createdAt string

	err := scanner.Scan(
		&bm.ID,
		&bm.BookID,
		&bm.Page,
		&bm.Note,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	bm.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &bm, nil
}

// CreateBookmark inserts a new bookmark. Multiple bookmarks may target the
// same page of a book.
func (s *Store) CreateBookmark(ctx context.Context, bm *domain.Bookmark) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (id, book_id, page, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		bm.ID,
		bm.BookID,
		bm.Page,
		bm.Note,
		formatTime(bm.CreatedAt),
	)
	return err
}

// GetBookmark retrieves a bookmark by ID.
// Returns errors.ErrNotFound if the bookmark does not exist.
func (s *Store) GetBookmark(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, bookmarkID)

	bm, err := scanBookmark(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("bookmark not found")
	}
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// ListBookmarks returns all bookmarks for a book ordered by page, then
// creation time.
func (s *Store) ListBookmarks(ctx context.Context, bookID string) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE book_id = ? ORDER BY page ASC, created_at ASC`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		bm, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, bm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if bookmarks == nil {
		bookmarks = []*domain.Bookmark{}
	}

	return bookmarks, nil
}

// DeleteBookmark removes a bookmark by ID.
// Returns errors.ErrNotFound if the bookmark does not exist.
func (s *Store) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, bookmarkID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("bookmark not found")
	}
	return nil
}
