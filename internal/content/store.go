// Package content manages the on-disk page store: per-book directories
// holding page documents, the page index, the table-of-contents fragment,
// and downloaded media.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

const (
	indexFile = "index.json"
	tocFile   = "toc.html"
	coverFile = "cover.jpg"
	mediaDir  = "media"
)

// Store manages per-book content directories under a base path.
// Thread-safe for concurrent imports of different books.
type Store struct {
	booksPath   string
	stagingPath string
	mu          sync.RWMutex
}

// NewStore creates a content store rooted at booksPath, with stagingPath
// used for scratch directories during conversion.
func NewStore(booksPath, stagingPath string) (*Store, error) {
	if booksPath == "" {
		return nil, fmt.Errorf("books path cannot be empty")
	}
	if stagingPath == "" {
		return nil, fmt.Errorf("staging path cannot be empty")
	}
	if err := os.MkdirAll(booksPath, 0755); err != nil {
		return nil, fmt.Errorf("create books directory: %w", err)
	}
	if err := os.MkdirAll(stagingPath, 0755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Store{booksPath: booksPath, stagingPath: stagingPath}, nil
}

// PageID returns the page identifier for a 1-based sequence number.
func PageID(n int) string {
	return fmt.Sprintf("page_%d.html", n)
}

// BookDir returns the directory holding one book's content.
func (s *Store) BookDir(bookID string) string {
	return filepath.Join(s.booksPath, bookID)
}

// StagingDir creates and returns a fresh scratch directory for one import.
// The caller removes it when the import finishes.
func (s *Store) StagingDir() (string, error) {
	dir := filepath.Join(s.stagingPath, uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	return dir, nil
}

// WritePages writes a book's full page sequence, TOC fragment, and index
// artifact in one operation. Pages are written in order; the index is
// written last so a complete index implies complete pages. An empty toc
// writes no TOC file. Returns the index artifact.
//
// The book directory is the unit of cleanup: on failure the caller removes
// the whole directory via DeleteBook.
func (s *Store) WritePages(bookID string, pages []string, toc string) (*domain.PageIndex, error) {
	if bookID == "" {
		return nil, fmt.Errorf("book ID cannot be empty")
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("page set cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.BookDir(bookID)
	if err := os.MkdirAll(filepath.Join(dir, mediaDir), 0755); err != nil {
		return nil, fmt.Errorf("create book directory: %w", err)
	}

	index := &domain.PageIndex{Total: len(pages), Pages: make([]string, len(pages))}
	for i, page := range pages {
		id := PageID(i + 1)
		index.Pages[i] = id
		if err := os.WriteFile(filepath.Join(dir, id), []byte(page), 0644); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}
	}

	if toc != "" {
		if err := os.WriteFile(filepath.Join(dir, tocFile), []byte(toc), 0644); err != nil {
			return nil, fmt.Errorf("write toc: %w", err)
		}
	}

	data, err := json.Marshal(index)
	if err != nil {
		return nil, fmt.Errorf("marshal index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, indexFile), data, 0644); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	return index, nil
}

// ReadIndex reads a book's page-index artifact.
func (s *Store) ReadIndex(bookID string) (*domain.PageIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.BookDir(bookID), indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("no page index for book %s", bookID)
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var index domain.PageIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return &index, nil
}

// ReadPage reads one page document by 1-based sequence number.
func (s *Store) ReadPage(bookID string, n int) ([]byte, error) {
	if n < 1 {
		return nil, errors.Validation("page number must be >= 1")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.BookDir(bookID), PageID(n)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("page %d not found for book %s", n, bookID)
		}
		return nil, fmt.Errorf("read page: %w", err)
	}
	return data, nil
}

// ReadTOC reads a book's table-of-contents fragment.
// Returns errors.ErrNotFound for books whose source had no TOC.
func (s *Store) ReadTOC(bookID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.BookDir(bookID), tocFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("no table of contents for book %s", bookID)
		}
		return nil, fmt.Errorf("read toc: %w", err)
	}
	return data, nil
}

// WriteMedia stores one media file under the book's media directory.
// Name may contain subdirectories from the source archive.
func (s *Store) WriteMedia(bookID, name string, data []byte) error {
	path, err := s.mediaPath(bookID, name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create media directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}

// ReadMedia reads one media file from the book's media directory.
func (s *Store) ReadMedia(bookID, name string) ([]byte, error) {
	path, err := s.mediaPath(bookID, name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("media %s not found for book %s", name, bookID)
		}
		return nil, fmt.Errorf("read media file: %w", err)
	}
	return data, nil
}

// MediaPath resolves a request-supplied media name to a filesystem path,
// rejecting names that escape the book's media directory.
func (s *Store) MediaPath(bookID, name string) (string, error) {
	return s.mediaPath(bookID, name)
}

func (s *Store) mediaPath(bookID, name string) (string, error) {
	if bookID == "" || name == "" {
		return "", errors.Validation("book ID and media name are required")
	}

	root := filepath.Join(s.BookDir(bookID), mediaDir)
	path := filepath.Join(root, filepath.FromSlash(name))

	// Names come from URLs and archives; keep them inside the media root.
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", errors.Validation("invalid media path")
	}
	return path, nil
}

// WriteOriginal stores the uploaded source file alongside the book's
// pages. PDFs are served back to the client-side renderer from here.
func (s *Store) WriteOriginal(bookID, ext string, data []byte) error {
	if bookID == "" {
		return fmt.Errorf("book ID cannot be empty")
	}
	if ext == "" || !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("extension must start with a dot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.BookDir(bookID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create book directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "original"+ext), data, 0644); err != nil {
		return fmt.Errorf("write original: %w", err)
	}
	return nil
}

// ReadOriginal reads the stored source file, returning its data and
// extension.
func (s *Store) ReadOriginal(bookID string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.BookDir(bookID), "original.*"))
	if err != nil || len(matches) == 0 {
		return nil, "", errors.NotFoundf("no original file for book %s", bookID)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, "", fmt.Errorf("read original: %w", err)
	}
	return data, filepath.Ext(matches[0]), nil
}

// WriteCover stores the book's cover image.
func (s *Store) WriteCover(bookID string, data []byte) error {
	if bookID == "" {
		return fmt.Errorf("book ID cannot be empty")
	}
	if len(data) == 0 {
		return fmt.Errorf("cover data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.BookDir(bookID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create book directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, coverFile), data, 0644); err != nil {
		return fmt.Errorf("write cover: %w", err)
	}
	return nil
}

// ReadCover reads the book's cover image.
func (s *Store) ReadCover(bookID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.BookDir(bookID), coverFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("no cover for book %s", bookID)
		}
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return data, nil
}

// HasCover reports whether the book has a stored cover.
func (s *Store) HasCover(bookID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(filepath.Join(s.BookDir(bookID), coverFile))
	return err == nil
}

// DeleteBook removes a book's whole content directory.
// Removing a book that has no directory is not an error.
func (s *Store) DeleteBook(bookID string) error {
	if bookID == "" {
		return fmt.Errorf("book ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.BookDir(bookID)); err != nil {
		return fmt.Errorf("remove book directory: %w", err)
	}
	return nil
}
