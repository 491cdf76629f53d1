package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/domain"
	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

func newTestTag(t *testing.T, s *Store, id, name string) *domain.Tag {
	t.Helper()
	now := time.Now().UTC()
	tag := &domain.Tag{ID: id, Name: name, Color: "#3498db", CreatedAt: now, UpdatedAt: now}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

func TestCreateTagDuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newTestTag(t, s, "tag_1", "physics")

	dup := &domain.Tag{ID: "tag_2", Name: "physics", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	err := s.CreateTag(ctx, dup)
	if !errors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListTagsSorted(t *testing.T) {
	s := newTestStore(t)

	newTestTag(t, s, "tag_b", "novels")
	newTestTag(t, s, "tag_a", "articles")
	newTestTag(t, s, "tag_c", "reference")

	tags, err := s.ListTags(context.Background())
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	want := []string{"articles", "novels", "reference"}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %d", len(want), len(tags))
	}
	for i, name := range want {
		if tags[i].Name != name {
			t.Errorf("tags[%d].Name = %q, want %q", i, tags[i].Name, name)
		}
	}
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := newTestTag(t, s, "tag_upd", "draft")
	tag.Name = "published"
	tag.Color = "#2c3e50"
	tag.Touch()
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("update tag: %v", err)
	}

	got, err := s.GetTag(ctx, "tag_upd")
	if err != nil {
		t.Fatalf("get tag: %v", err)
	}
	if got.Name != "published" {
		t.Errorf("name = %q, want %q", got.Name, "published")
	}
	if got.Color != "#2c3e50" {
		t.Errorf("color = %q, want %q", got.Color, "#2c3e50")
	}
}

func TestUpdateTagNameCollision(t *testing.T) {
	s := newTestStore(t)

	newTestTag(t, s, "tag_x", "taken")
	other := newTestTag(t, s, "tag_y", "free")

	other.Name = "taken"
	err := s.UpdateTag(context.Background(), other)
	if !errors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestBookTagAttachDetach(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := newTestBook(t, s, "book_tagged", "Tagged")
	tag := newTestTag(t, s, "tag_att", "science")

	now := time.Now().UTC()
	if err := s.AddBookTag(ctx, b.ID, tag.ID, now); err != nil {
		t.Fatalf("add book tag: %v", err)
	}
	// Re-attaching the same tag is a no-op.
	if err := s.AddBookTag(ctx, b.ID, tag.ID, now); err != nil {
		t.Fatalf("re-add book tag: %v", err)
	}

	tags, err := s.ListTagsForBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("list tags for book: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != tag.ID {
		t.Fatalf("expected 1 tag %s, got %+v", tag.ID, tags)
	}

	ids, err := s.ListBookIDsForTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("list books for tag: %v", err)
	}
	if len(ids) != 1 || ids[0] != b.ID {
		t.Fatalf("expected [%s], got %v", b.ID, ids)
	}

	if err := s.RemoveBookTag(ctx, b.ID, tag.ID); err != nil {
		t.Fatalf("remove book tag: %v", err)
	}
	tags, err = s.ListTagsForBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("list tags for book: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags, got %d", len(tags))
	}

	if err := s.RemoveBookTag(ctx, b.ID, tag.ID); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestAddBookTagMissingBook(t *testing.T) {
	s := newTestStore(t)
	tag := newTestTag(t, s, "tag_orphan", "orphan")

	err := s.AddBookTag(context.Background(), "book_missing", tag.ID, time.Now().UTC())
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTagCascadesAssociations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := newTestBook(t, s, "book_keep", "Kept")
	tag := newTestTag(t, s, "tag_del", "ephemeral")
	if err := s.AddBookTag(ctx, b.ID, tag.ID, time.Now().UTC()); err != nil {
		t.Fatalf("add book tag: %v", err)
	}

	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}

	// The book survives with no tags.
	if _, err := s.GetBook(ctx, b.ID); err != nil {
		t.Fatalf("get book: %v", err)
	}
	tags, err := s.ListTagsForBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("list tags for book: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags after delete, got %d", len(tags))
	}
}
