package service

import (
	"context"
	"testing"

	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

func newImportService(t *testing.T, e *testEnv) *ImportService {
	t.Helper()
	// No converter; nothing here reaches a pandoc invocation.
	return NewImportService(e.store, e.content, nil, e.index, e.logger)
}

func TestImportRejectsUnsupportedExtension(t *testing.T) {
	e := newTestEnv(t)
	svc := newImportService(t, e)

	for _, name := range []string{"notes.txt", "book.mobi", "archive.zip", "noext"} {
		_, err := svc.Import(context.Background(), name, []byte("data"))
		if !errors.Is(err, errors.ErrUnsupportedMedia) {
			t.Errorf("Import(%q) err = %v, want unsupported media", name, err)
		}
	}

	books, err := e.store.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books, want 0", len(books))
	}
}

func TestImportRejectsEmptyUpload(t *testing.T) {
	e := newTestEnv(t)
	svc := newImportService(t, e)

	_, err := svc.Import(context.Background(), "book.epub", nil)
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestImportRejectsCorruptPDF(t *testing.T) {
	e := newTestEnv(t)
	svc := newImportService(t, e)

	_, err := svc.Import(context.Background(), "paper.pdf", []byte("not a pdf at all"))
	if !errors.Is(err, errors.ErrUnsupportedMedia) {
		t.Fatalf("err = %v, want unsupported media", err)
	}

	books, err := e.store.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books, want 0", len(books))
	}
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		filename string
		want     string
	}{
		{"from title tag", `<html><head><title>A Real Title</title></head></html>`, "file.epub", "A Real Title"},
		{"markup stripped", `<title>Tales <em>of</em> Go</title>`, "file.epub", "Tales of Go"},
		{"empty title falls back", `<title>  </title>`, "my-book.epub", "my-book"},
		{"no title falls back", `<html></html>`, "my-book.epub", "my-book"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := documentTitle(tt.doc, tt.filename); got != tt.want {
				t.Errorf("documentTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentLanguage(t *testing.T) {
	if got := documentLanguage(`<html xmlns="x" lang="en-US"><head></head></html>`); got != "en" {
		t.Errorf("got %q, want en", got)
	}
	if got := documentLanguage(`<html><head></head></html>`); got != "ja" {
		t.Errorf("default = %q, want ja", got)
	}
}

func TestLooksLikeCover(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"cover.jpg", true},
		{"images/Cover_Image.png", true},
		{"OEBPS/bookcover.jpeg", true},
		{"figure1.png", false},
		{"images/title-page.png", false},
	}
	for _, tt := range tests {
		if got := looksLikeCover(tt.name); got != tt.want {
			t.Errorf("looksLikeCover(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
