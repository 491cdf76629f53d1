package providers

import (
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/samber/do/v2"

	"github.com/tsuji1/hep-reader-sub001/internal/config"
	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/logger"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

// StoreHandle wraps the catalog store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite catalog store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Storage.BasePath, "library.db")
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ProvideContentStore provides the per-book content directory store.
func ProvideContentStore(i do.Injector) (*content.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store, err := content.NewStore(cfg.BooksPath(), cfg.StagingPath())
	if err != nil {
		return nil, err
	}

	log.Info("Content store initialized", "books_path", cfg.BooksPath())

	return store, nil
}

// FetchCacheHandle wraps the fetched-HTML cache with shutdown capability.
type FetchCacheHandle struct {
	*badger.DB
}

// Shutdown implements do.Shutdownable.
func (h *FetchCacheHandle) Shutdown() error {
	if h.DB == nil {
		return nil
	}
	return h.Close()
}

// ProvideFetchCache provides the Badger cache for fetched article HTML.
// A failed open is non-fatal; saves simply refetch every time.
func ProvideFetchCache(i do.Injector) (*FetchCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cachePath := filepath.Join(cfg.Storage.BasePath, "fetch-cache")
	db, err := badger.Open(badger.DefaultOptions(cachePath).WithLogger(nil))
	if err != nil {
		log.Warn("fetch cache unavailable, article saves will not be cached",
			"path", cachePath,
			"error", err,
		)
		return &FetchCacheHandle{DB: nil}, nil
	}

	log.Info("Fetch cache initialized", "path", cachePath)

	return &FetchCacheHandle{DB: db}, nil
}
