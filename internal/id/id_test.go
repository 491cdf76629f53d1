package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(PrefixBook)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(got, "book-") {
		t.Errorf("expected book- prefix, got %q", got)
	}
	// prefix + "-" + 21-char nanoid
	if len(got) != len(PrefixBook)+1+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerateUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate(PrefixClip)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestMustGenerate(t *testing.T) {
	id := MustGenerate(PrefixTag)
	if !strings.HasPrefix(id, "tag-") {
		t.Errorf("expected tag- prefix, got %q", id)
	}
}
