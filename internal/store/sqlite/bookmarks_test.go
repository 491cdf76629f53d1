package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

func TestCreateAndListBookmarks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := newTestBook(t, s, "book_bm", "Bookmarked")

	now := time.Now().UTC()
	marks := []*domain.Bookmark{
		{ID: "bm_p3", BookID: b.ID, Page: 3, Note: "later", CreatedAt: now},
		{ID: "bm_p1a", BookID: b.ID, Page: 1, Note: "first", CreatedAt: now},
		{ID: "bm_p1b", BookID: b.ID, Page: 1, CreatedAt: now.Add(time.Second)},
	}
	for _, bm := range marks {
		if err := s.CreateBookmark(ctx, bm); err != nil {
			t.Fatalf("create bookmark %s: %v", bm.ID, err)
		}
	}

	got, err := s.ListBookmarks(ctx, b.ID)
	if err != nil {
		t.Fatalf("list bookmarks: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(got))
	}
	// Ordered by page, then creation time. Two bookmarks on the same page
	// are both kept.
	want := []string{"bm_p1a", "bm_p1b", "bm_p3"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("bookmarks[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
	if got[0].Note != "first" {
		t.Errorf("note = %q, want %q", got[0].Note, "first")
	}
}

func TestListBookmarksEmpty(t *testing.T) {
	s := newTestStore(t)
	b := newTestBook(t, s, "book_empty", "No Marks")

	got, err := s.ListBookmarks(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("list bookmarks: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 bookmarks, got %d", len(got))
	}
}

func TestDeleteBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := newTestBook(t, s, "book_bmdel", "Marked")
	bm := &domain.Bookmark{ID: "bm_del", BookID: b.ID, Page: 2, CreatedAt: time.Now().UTC()}
	if err := s.CreateBookmark(ctx, bm); err != nil {
		t.Fatalf("create bookmark: %v", err)
	}

	if err := s.DeleteBookmark(ctx, "bm_del"); err != nil {
		t.Fatalf("delete bookmark: %v", err)
	}
	if _, err := s.GetBookmark(ctx, "bm_del"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Deleting again reports not found.
	if err := s.DeleteBookmark(ctx, "bm_del"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
