package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook. The last_read_page column comes
// from the LEFT JOIN against reading_progress.
const bookColumns = `b.id, b.title, b.original_filename, b.total_pages, b.type, b.language,
	b.source_url, b.description, b.cover_blurhash, b.created_at, b.updated_at, rp.page`

const bookFrom = ` FROM books b LEFT JOIN reading_progress rp ON rp.book_id = b.id`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		originalFilename sql.NullString
		sourceURL        sql.NullString
		createdAt        string
		updatedAt        string
		lastReadPage     sql.NullInt64
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&originalFilename,
		&b.TotalPages,
		&b.Type,
		&b.Language,
		&sourceURL,
		&b.Description,
		&b.CoverBlurhash,
		&createdAt,
		&updatedAt,
		&lastReadPage,
	)
	if err != nil {
		return nil, err
	}

	b.OriginalFilename = stringPtr(originalFilename)
	b.SourceURL = stringPtr(sourceURL)
	if lastReadPage.Valid {
		page := int(lastReadPage.Int64)
		b.LastReadPage = &page
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new book into the catalog.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, original_filename, total_pages, type, language,
			source_url, description, cover_blurhash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.Title,
		nullString(b.OriginalFilename),
		b.TotalPages,
		string(b.Type),
		b.Language,
		nullString(b.SourceURL),
		b.Description,
		b.CoverBlurhash,
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	return err
}

// GetBook retrieves a book by ID, including the derived last-read page.
// Returns errors.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+bookFrom+` WHERE b.id = ?`, bookID)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("book not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns all books ordered by most recently updated. The update
// timestamp is touched on progress writes, so this is effectively a
// recently-read ordering.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+bookFrom+` ORDER BY b.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if books == nil {
		books = []*domain.Book{}
	}

	return books, nil
}

// UpdateBook persists mutable book fields (title, language, total pages,
// description, cover blurhash) and the update timestamp.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books
		SET title = ?, language = ?, total_pages = ?, description = ?, cover_blurhash = ?, updated_at = ?
		WHERE id = ?`,
		b.Title,
		b.Language,
		b.TotalPages,
		b.Description,
		b.CoverBlurhash,
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("book not found")
	}
	return nil
}

// TouchBook bumps a book's update timestamp. Used by progress upserts so
// recency-ordered listings reflect reading activity.
func (s *Store) TouchBook(ctx context.Context, bookID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE books SET updated_at = ? WHERE id = ?`, formatTime(at), bookID)
	return err
}

// DeleteBook removes a book. Bookmarks, reading progress, clips, and tag
// associations cascade via foreign keys.
// Returns errors.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("book not found")
	}
	return nil
}
