package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/logger"
	"github.com/tsuji1/hep-reader-sub001/internal/search"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

// env opens backends lazily so a command only touches the files it needs.
// The search index takes an exclusive lock, so commands that do not search
// or index can run alongside the server.
type env struct {
	dataPath string
	logger   *slog.Logger

	store        *sqlite.Store
	index        *search.Index
	contentStore *content.Store
}

func newEnv(dataPath string) (*env, error) {
	path, err := resolveDataPath(dataPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Writer: os.Stderr,
		Level:  slog.LevelWarn,
	})

	return &env{dataPath: path, logger: log.Logger}, nil
}

// resolveDataPath applies the same default as the server: flag, then
// DATA_PATH, then ~/HepReader/data.
func resolveDataPath(flagValue string) (string, error) {
	path := flagValue
	if path == "" {
		path = os.Getenv("DATA_PATH")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, "HepReader", "data")
	}
	return filepath.Abs(path)
}

func (e *env) Store() (*sqlite.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	store, err := sqlite.Open(filepath.Join(e.dataPath, "library.db"), e.logger)
	if err != nil {
		return nil, err
	}
	e.store = store
	return store, nil
}

func (e *env) Index() (*search.Index, error) {
	if e.index != nil {
		return e.index, nil
	}
	index, err := search.NewIndex(search.Options{DataPath: e.dataPath, Logger: e.logger})
	if err != nil {
		return nil, err
	}
	e.index = index
	return index, nil
}

func (e *env) Content() (*content.Store, error) {
	if e.contentStore != nil {
		return e.contentStore, nil
	}
	store, err := content.NewStore(filepath.Join(e.dataPath, "books"), filepath.Join(e.dataPath, "tmp"))
	if err != nil {
		return nil, err
	}
	e.contentStore = store
	return store, nil
}

func (e *env) Close() {
	if e.index != nil {
		if err := e.index.Close(); err != nil {
			e.logger.Warn("failed to close search index", "error", err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("failed to close catalog database", "error", err)
		}
	}
}
