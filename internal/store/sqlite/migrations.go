package sqlite

import "fmt"

// migration is one schema change. Migrations are applied in order exactly
// once; the schema_migrations table tracks the applied version.
type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations is the ordered schema history. Never reorder or edit an applied
// entry; append a new one instead.
var migrations = []migration{
	{
		version: 1,
		name:    "create_books",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS books (
				id                TEXT PRIMARY KEY,
				title             TEXT NOT NULL,
				original_filename TEXT,
				total_pages       INTEGER NOT NULL DEFAULT 1 CHECK (total_pages >= 1),
				type              TEXT NOT NULL CHECK (type IN ('epub', 'pdf', 'website')),
				language          TEXT NOT NULL DEFAULT '',
				source_url        TEXT,
				created_at        TEXT NOT NULL,
				updated_at        TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_books_updated_at ON books(updated_at DESC)`,
		},
	},
	{
		version: 2,
		name:    "create_bookmarks",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS bookmarks (
				id         TEXT PRIMARY KEY,
				book_id    TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
				page       INTEGER NOT NULL CHECK (page >= 1),
				note       TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_book_id ON bookmarks(book_id)`,
		},
	},
	{
		version: 3,
		name:    "create_reading_progress",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS reading_progress (
				book_id    TEXT PRIMARY KEY REFERENCES books(id) ON DELETE CASCADE,
				page       INTEGER NOT NULL CHECK (page >= 1),
				updated_at TEXT NOT NULL
			)`,
		},
	},
	{
		version: 4,
		name:    "create_clips",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS clips (
				id         TEXT PRIMARY KEY,
				book_id    TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
				page       INTEGER NOT NULL CHECK (page >= 1),
				image      TEXT NOT NULL,
				note       TEXT NOT NULL DEFAULT '',
				rect_x     REAL,
				rect_y     REAL,
				rect_w     REAL,
				rect_h     REAL,
				created_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_clips_book_id ON clips(book_id)`,
		},
	},
	{
		version: 5,
		name:    "create_tags",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS tags (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL UNIQUE,
				color      TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS book_tags (
				book_id    TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
				tag_id     TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
				created_at TEXT NOT NULL,
				PRIMARY KEY (book_id, tag_id)
			)`,
		},
	},
	{
		version: 6,
		name:    "books_description_and_blurhash",
		stmts: []string{
			`ALTER TABLE books ADD COLUMN description TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE books ADD COLUMN cover_blurhash TEXT NOT NULL DEFAULT ''`,
		},
	},
}

// migrate applies all pending migrations inside transactions, recording each
// applied version in schema_migrations.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read current version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}

		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}

		if s.logger != nil {
			s.logger.Info("applied migration", "version", m.version, "name", m.name)
		}
	}

	return nil
}
