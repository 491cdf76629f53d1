package service

import (
	"context"
	"testing"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

func TestCreateBookmark(t *testing.T) {
	e := newTestEnv(t)
	svc := NewBookmarkService(e.store, e.logger)
	seedBook(t, e, "book-bm1", "Marked")

	bm, err := svc.CreateBookmark(context.Background(), "book-bm1", 2, "interesting")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if bm.ID == "" || bm.Page != 2 || bm.Note != "interesting" {
		t.Errorf("bookmark = %+v", bm)
	}

	list, err := svc.ListBookmarks(context.Background(), "book-bm1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d bookmarks, want 1", len(list))
	}
}

func TestCreateBookmarkPageBounds(t *testing.T) {
	e := newTestEnv(t)
	svc := NewBookmarkService(e.store, e.logger)
	seedBook(t, e, "book-bm2", "Bounded")

	for _, page := range []int{0, -1, 4} {
		if _, err := svc.CreateBookmark(context.Background(), "book-bm2", page, ""); !errors.Is(err, errors.ErrValidation) {
			t.Errorf("page %d err = %v, want validation", page, err)
		}
	}

	if _, err := svc.CreateBookmark(context.Background(), "missing", 1, ""); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing book err = %v, want not found", err)
	}
}

func TestBookmarkBeyondProvisionalPDFCount(t *testing.T) {
	e := newTestEnv(t)
	svc := NewBookmarkService(e.store, e.logger)
	seedPDFBook(t, e, "book-bm3", "Paper")

	// PDF counts are provisional until the renderer reports, so pages
	// past 1 are accepted.
	if _, err := svc.CreateBookmark(context.Background(), "book-bm3", 17, ""); err != nil {
		t.Fatalf("create on pdf page 17: %v", err)
	}
}

func TestUpdateProgress(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProgressService(e.store, e.logger)
	seedBook(t, e, "book-p1", "Tracked")

	if _, err := svc.GetProgress(context.Background(), "book-p1"); !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("fresh book progress err = %v, want not found", err)
	}

	if _, err := svc.UpdateProgress(context.Background(), "book-p1", 2); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.UpdateProgress(context.Background(), "book-p1", 3); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetProgress(context.Background(), "book-p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Page != 3 {
		t.Errorf("page = %d, want 3", got.Page)
	}

	book, err := e.store.GetBook(context.Background(), "book-p1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if book.LastReadPage == nil || *book.LastReadPage != 3 {
		t.Errorf("last read page = %v, want 3", book.LastReadPage)
	}

	if _, err := svc.UpdateProgress(context.Background(), "book-p1", 99); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("out of range err = %v, want validation", err)
	}
}

func TestCreateClip(t *testing.T) {
	e := newTestEnv(t)
	svc := NewClipService(e.store, e.logger)
	seedBook(t, e, "book-c1", "Clipped")

	rect := &domain.ClipRect{X: 10, Y: 20, W: 100, H: 50}
	clip, err := svc.CreateClip(context.Background(), "book-c1", 1, "data:image/png;base64,xyz", "note", rect)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if clip.Rect == nil || *clip.Rect != *rect {
		t.Errorf("rect = %+v", clip.Rect)
	}

	// Rect is optional.
	if _, err := svc.CreateClip(context.Background(), "book-c1", 2, "data:image/png;base64,abc", "", nil); err != nil {
		t.Fatalf("create without rect: %v", err)
	}

	list, err := svc.ListClips(context.Background(), "book-c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d clips, want 2", len(list))
	}
}

func TestCreateClipValidation(t *testing.T) {
	e := newTestEnv(t)
	svc := NewClipService(e.store, e.logger)
	seedBook(t, e, "book-c2", "Strict")

	if _, err := svc.CreateClip(context.Background(), "book-c2", 1, "", "", nil); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("empty image err = %v, want validation", err)
	}

	bad := &domain.ClipRect{X: 0, Y: 0, W: 0, H: 10}
	if _, err := svc.CreateClip(context.Background(), "book-c2", 1, "data:x", "", bad); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("degenerate rect err = %v, want validation", err)
	}
}
