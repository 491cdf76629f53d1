package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

// GetProgress retrieves the reading progress for a book.
// Returns errors.ErrNotFound if the book has never been read.
func (s *Store) GetProgress(ctx context.Context, bookID string) (*domain.ReadingProgress, error) {
	var p domain.ReadingProgress
	var updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT book_id, page, updated_at FROM reading_progress WHERE book_id = ?`, bookID).
		Scan(&p.BookID, &p.Page, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("no reading progress for book")
	}
	if err != nil {
		return nil, err
	}

	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// UpsertProgress writes the single reading-progress row for a book,
// inserting or overwriting as needed, and touches the owning book's update
// timestamp in the same transaction so recency listings stay consistent.
func (s *Store) UpsertProgress(ctx context.Context, p *domain.ReadingProgress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin progress upsert: %w", err)
	}
	defer tx.Rollback()

	ts := formatTime(p.UpdatedAt)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reading_progress (book_id, page, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(book_id) DO UPDATE SET page = excluded.page, updated_at = excluded.updated_at`,
		p.BookID, p.Page, ts)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return errors.NotFound("book not found")
		}
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE books SET updated_at = ? WHERE id = ?`, ts, p.BookID)
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

	return tx.Commit()
}
