// Package inbox watches a drop directory and imports ebook files placed
// into it, so books can be added by copying files instead of uploading.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

// Subdirectories files are moved into after an import attempt. Both live
// inside the watched directory but are never watched themselves.
const (
	importedDir = "imported"
	failedDir   = "failed"
)

// defaultSettleDelay is how long a file must stop changing before it is
// considered fully copied.
const defaultSettleDelay = 2 * time.Second

// pendingFile tracks a file that may still be copying in.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// Watcher monitors the inbox directory. Files are only imported once
// their size and mtime stop changing, so partially copied files are
// never picked up.
type Watcher struct {
	path        string
	importer    *service.ImportService
	logger      *slog.Logger
	settleDelay time.Duration

	watcher *fsnotify.Watcher
	pending map[string]*pendingFile
	mu      sync.Mutex
}

// New creates an inbox watcher for path. The directory and its
// imported/failed subdirectories are created when missing.
func New(path string, importer *service.ImportService, logger *slog.Logger) (*Watcher, error) {
	for _, dir := range []string{path, filepath.Join(path, importedDir), filepath.Join(path, failedDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create inbox directory: %w", err)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch inbox directory: %w", err)
	}

	return &Watcher{
		path:        path,
		importer:    importer,
		logger:      logger,
		settleDelay: defaultSettleDelay,
		watcher:     fsWatcher,
		pending:     make(map[string]*pendingFile),
	}, nil
}

// Run processes inbox events until the context is cancelled. Files
// already sitting in the inbox at startup are imported first.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.importExisting(ctx)

	w.logger.Info("inbox watcher started", "path", w.path)
	for {
		select {
		case <-ctx.Done():
			w.cancelAllPending()
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.startSettling(ctx, event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watch error", "error", err)
		}
	}
}

// importExisting sweeps files that were dropped while the watcher was
// not running.
func (w *Watcher) importExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.path)
	if err != nil {
		w.logger.Warn("failed to scan inbox", "path", w.path, "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isEbook(entry.Name()) {
			continue
		}
		w.importFile(ctx, filepath.Join(w.path, entry.Name()))
	}
}

// startSettling schedules an import attempt once the file stops growing.
// Each new write pushes the timer back.
func (w *Watcher) startSettling(ctx context.Context, path string) {
	if !isEbook(path) || filepath.Dir(path) != filepath.Clean(w.path) {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}
	p := &pendingFile{size: info.Size(), modTime: info.ModTime()}
	p.timer = time.AfterFunc(w.settleDelay, func() {
		w.checkSettled(ctx, path)
	})
	w.pending[path] = p
}

// checkSettled imports the file if it stopped changing, or re-arms the
// timer when a copy is still in progress.
func (w *Watcher) checkSettled(ctx context.Context, path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}

	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(w.settleDelay, func() {
			w.checkSettled(ctx, path)
		})
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	w.importFile(ctx, path)
}

// importFile runs one import attempt and moves the file aside. Failures
// never stop the watcher.
func (w *Watcher) importFile(ctx context.Context, path string) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read inbox file", "name", name, "error", err)
		return
	}

	book, err := w.importer.Import(ctx, name, data)
	if err != nil {
		w.logger.Warn("inbox import failed", "name", name, "error", err)
		w.moveAside(path, failedDir)
		return
	}

	w.logger.Info("inbox file imported", "name", name, "book_id", book.ID, "title", book.Title)
	w.moveAside(path, importedDir)
}

// moveAside relocates a processed file into a sibling subdirectory,
// adding a timestamp suffix on name collisions.
func (w *Watcher) moveAside(path, subdir string) {
	name := filepath.Base(path)
	dest := filepath.Join(w.path, subdir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		dest = filepath.Join(w.path, subdir, fmt.Sprintf("%s-%d%s", stem, time.Now().Unix(), ext))
	}
	if err := os.Rename(path, dest); err != nil {
		w.logger.Warn("failed to move processed inbox file", "name", name, "error", err)
	}
}

func (w *Watcher) cancelAllPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

// isEbook reports whether the filename has an importable extension.
func isEbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".epub", ".pdf":
		return true
	}
	return false
}
