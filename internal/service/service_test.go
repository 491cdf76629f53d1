package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/content"
	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/extract"
	"github.com/tsuji1/hep-reader-sub001/internal/search"
	"github.com/tsuji1/hep-reader-sub001/internal/store/sqlite"
)

type testEnv struct {
	store   *sqlite.Store
	content *content.Store
	index   *search.Index
	logger  *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := sqlite.Open(filepath.Join(dir, "library.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cs, err := content.NewStore(filepath.Join(dir, "books"), filepath.Join(dir, "tmp"))
	if err != nil {
		t.Fatalf("content store: %v", err)
	}

	index, err := search.NewIndex(search.Options{DataPath: dir, Logger: logger})
	if err != nil {
		t.Fatalf("search index: %v", err)
	}
	t.Cleanup(func() { index.Close() })

	return &testEnv{store: store, content: cs, index: index, logger: logger}
}

func (e *testEnv) newFetcher(t *testing.T) *extract.Fetcher {
	t.Helper()
	return extract.NewFetcher(extract.FetcherOptions{UserAgent: "test-agent"}, e.logger)
}

// seedBook registers a three-page epub book directly through the stores.
func seedBook(t *testing.T, e *testEnv, bookID, title string) *domain.Book {
	t.Helper()
	filename := title + ".epub"
	now := time.Now().UTC()
	book := &domain.Book{
		ID:               bookID,
		Title:            title,
		OriginalFilename: &filename,
		TotalPages:       3,
		Type:             domain.BookTypeEPUB,
		Language:         "en",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.store.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("seed book: %v", err)
	}
	pages := []string{"<p>one</p>", "<p>two</p>", "<p>three</p>"}
	if _, err := e.content.WritePages(bookID, pages, "<nav>toc</nav>"); err != nil {
		t.Fatalf("seed pages: %v", err)
	}
	return book
}

// seedPDFBook registers a PDF book with the provisional single page.
func seedPDFBook(t *testing.T, e *testEnv, bookID, title string) *domain.Book {
	t.Helper()
	filename := title + ".pdf"
	now := time.Now().UTC()
	book := &domain.Book{
		ID:               bookID,
		Title:            title,
		OriginalFilename: &filename,
		TotalPages:       1,
		Type:             domain.BookTypePDF,
		Language:         "ja",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := e.store.CreateBook(context.Background(), book); err != nil {
		t.Fatalf("seed pdf book: %v", err)
	}
	return book
}

// testPNG renders a small solid image for cover and media fixtures.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
