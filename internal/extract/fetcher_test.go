package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

func newTestCache(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"ftp://example.com/a", false},
		{"file:///etc/hosts", false},
		{"//no-scheme.example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		_, err := ParseURL(tt.raw)
		if tt.ok && err != nil {
			t.Errorf("ParseURL(%q): unexpected error %v", tt.raw, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseURL(%q): expected error", tt.raw)
		}
	}
}

func TestFetchPageSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{UserAgent: "HepReader-test"}, testLogger())
	u, _ := ParseURL(srv.URL)
	if _, err := f.FetchPage(context.Background(), u); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotUA != "HepReader-test" {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestFetchPageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{}, testLogger())
	u, _ := ParseURL(srv.URL)
	_, err := f.FetchPage(context.Background(), u)
	if !errors.Is(err, errors.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestFetchImageTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewFetcher(FetcherOptions{ImageTimeout: 20 * time.Millisecond}, testLogger())
	u, _ := ParseURL(srv.URL + "/slow.jpg")
	_, err := f.FetchImage(context.Background(), u)
	if !errors.Is(err, errors.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed on timeout, got %v", err)
	}
}
