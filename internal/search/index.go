package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// Index wraps a Bleve index of book pages.
//
// All public methods are safe for concurrent use; the mutex guards
// against corruption during rebuilds.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// mappingVersion is bumped whenever the index mapping changes, forcing a
// rebuild on startup when the stored version does not match.
const mappingVersion = "1"

// Options configures the search index.
type Options struct {
	DataPath string
	Logger   *slog.Logger
}

// NewIndex opens the page index at DataPath, creating it when missing and
// recreating it when corrupted or built with an older mapping.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	indexPath := filepath.Join(opts.DataPath, "pages.bleve")
	versionPath := filepath.Join(opts.DataPath, "pages.version")

	var index bleve.Index
	rebuild := false

	if _, err := os.Stat(indexPath); err == nil {
		version, readErr := os.ReadFile(versionPath)
		if readErr != nil || string(version) != mappingVersion {
			logger.Info("search index mapping outdated, rebuilding",
				"old_version", string(version),
				"new_version", mappingVersion,
			)
			rebuild = true
		} else {
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open search index, recreating", "error", err)
				rebuild = true
			}
		}
	}

	if rebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		index = nil
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0644); err != nil {
			logger.Warn("failed to write index version file", "error", err)
		}
		logger.Info("created search index", "path", indexPath)
	}

	return &Index{index: index, path: indexPath, logger: logger}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexBookPages indexes all pages of one book in a single batch.
func (s *Index) IndexBookPages(docs []*PageDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	return s.index.Batch(batch)
}

// DeleteBook removes every indexed page of a book.
func (s *Index) DeleteBook(bookID string, totalPages int) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for page := 1; page <= totalPages; page++ {
		batch.Delete(DocID(bookID, page))
	}
	return s.index.Batch(batch)
}

// DocumentCount returns the number of indexed pages.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
