package sqlite

import (
	"context"
	"database/sql"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

const clipColumns = `id, book_id, page, image, note, rect_x, rect_y, rect_w, rect_h, created_at`

func scanClip(scanner interface{ Scan(dest ...any) error }) (*domain.Clip, error) {
	var c domain.Clip

	var (
		rectX, rectY, rectW, rectH sql.NullFloat64
		createdAt                  string
	)

	err := scanner.Scan(
		&c.ID,
		&c.BookID,
		&c.Page,
		&c.Image,
		&c.Note,
		&rectX,
		&rectY,
		&rectW,
		&rectH,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	// The rectangle is stored as four nullable columns that are set or null
	// as a group.
	if rectX.Valid && rectY.Valid && rectW.Valid && rectH.Valid {
		c.Rect = &domain.ClipRect{
			X: rectX.Float64,
			Y: rectY.Float64,
			W: rectW.Float64,
			H: rectH.Float64,
		}
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateClip inserts a new clip.
func (s *Store) CreateClip(ctx context.Context, c *domain.Clip) error {
	var rectX, rectY, rectW, rectH sql.NullFloat64
	if c.Rect != nil {
		rectX = nullFloat(&c.Rect.X)
		rectY = nullFloat(&c.Rect.Y)
		rectW = nullFloat(&c.Rect.W)
		rectH = nullFloat(&c.Rect.H)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clips (id, book_id, page, image, note, rect_x, rect_y, rect_w, rect_h, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.BookID,
		c.Page,
		c.Image,
		c.Note,
		rectX,
		rectY,
		rectW,
		rectH,
		formatTime(c.CreatedAt),
	)
	return err
}

// GetClip retrieves a clip by ID.
// Returns errors.ErrNotFound if the clip does not exist.
func (s *Store) GetClip(ctx context.Context, clipID string) (*domain.Clip, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+clipColumns+` FROM clips WHERE id = ?`, clipID)

	c, err := scanClip(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("clip not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListClips returns all clips for a book ordered by page, then creation time.
func (s *Store) ListClips(ctx context.Context, bookID string) ([]*domain.Clip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clipColumns+` FROM clips WHERE book_id = ? ORDER BY page ASC, created_at ASC`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []*domain.Clip
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if clips == nil {
		clips = []*domain.Clip{}
	}

	return clips, nil
}

// DeleteClip removes a clip by ID.
// Returns errors.ErrNotFound if the clip does not exist.
func (s *Store) DeleteClip(ctx context.Context, clipID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clips WHERE id = ?`, clipID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("clip not found")
	}
	return nil
}
