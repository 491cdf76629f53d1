package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

const tagColumns = `id, name, color, created_at, updated_at`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var createdAt, updatedAt string

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Color,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag. Tag names are unique.
// Returns errors.ErrAlreadyExists if a tag with the same name exists.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		t.Color,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.AlreadyExists("tag with this name already exists")
		}
		return err
	}
	return nil
}

// GetTag retrieves a tag by ID.
// Returns errors.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("tag not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// UpdateTag updates a tag's name and color.
// Returns errors.ErrNotFound if the tag does not exist and
// errors.ErrAlreadyExists if the new name collides with another tag.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		t.Name,
		t.Color,
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.AlreadyExists("tag with this name already exists")
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("tag not found")
	}
	return nil
}

// DeleteTag removes a tag. Book associations are removed by cascade.
// Returns errors.ErrNotFound if the tag does not exist.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("tag not found")
	}
	return nil
}

// AddBookTag associates a tag with a book. Adding an existing
// association is a no-op.
func (s *Store) AddBookTag(ctx context.Context, bookID, tagID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO book_tags (book_id, tag_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (book_id, tag_id) DO NOTHING`,
		bookID,
		tagID,
		formatTime(at),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return errors.NotFound("book or tag not found")
		}
		return err
	}
	return nil
}

// RemoveBookTag removes a tag association from a book.
// Returns errors.ErrNotFound if the association does not exist.
func (s *Store) RemoveBookTag(ctx context.Context, bookID, tagID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM book_tags WHERE book_id = ? AND tag_id = ?`, bookID, tagID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound("book does not have this tag")
	}
	return nil
}

// ListTagsForBook returns the tags attached to a book ordered by name.
func (s *Store) ListTagsForBook(ctx context.Context, bookID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.color, t.created_at, t.updated_at
		FROM tags t
		JOIN book_tags bt ON bt.tag_id = t.id
		WHERE bt.book_id = ?
		ORDER BY t.name ASC`,
		bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// ListBookIDsForTag returns the IDs of books carrying a tag, most
// recently updated first.
func (s *Store) ListBookIDsForTag(ctx context.Context, tagID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id
		FROM books b
		JOIN book_tags bt ON bt.book_id = b.id
		WHERE bt.tag_id = ?
		ORDER BY b.updated_at DESC`,
		tagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}
