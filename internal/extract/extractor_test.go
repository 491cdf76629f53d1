package extract

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tsuji1/hep-reader-sub001/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func newTestExtractor() *Extractor {
	f := NewFetcher(FetcherOptions{UserAgent: "test-agent"}, testLogger())
	return NewExtractor(f, 21, testLogger())
}

const articleHTML = `<html><head>
<title>Doc Title</title>
<meta property="og:title" content="How Things Work">
<meta property="og:site_name" content="The Example Times">
<meta property="og:image" content="/hero.jpg">
</head><body>
<nav>site navigation</nav>
<div class="sidebar">other posts</div>
<article>
<p>This opening paragraph sets up the whole piece with plenty of words.</p>
<h2>The first real section</h2>
<p>Text of the first section, comfortably past the threshold.</p>
<img src="/figures/one.png">
<h2>The second real section</h2>
<p>Text of the second section, also comfortably past the threshold.</p>
</article>
</body></html>`

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	art, err := newTestExtractor().Extract(context.Background(), srv.URL+"/post")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if art.Title != "How Things Work" {
		t.Errorf("title = %q", art.Title)
	}
	if art.SiteName != "The Example Times" {
		t.Errorf("site name = %q", art.SiteName)
	}
	if art.CoverURL != srv.URL+"/hero.jpg" {
		t.Errorf("cover = %q", art.CoverURL)
	}
	if len(art.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(art.Pages))
	}
	if len(art.Images) != 1 || art.Images[0] != srv.URL+"/figures/one.png" {
		t.Errorf("images = %v", art.Images)
	}

	all := strings.Join(art.Pages, "")
	if strings.Contains(all, "site navigation") || strings.Contains(all, "other posts") {
		t.Error("boilerplate survived extraction")
	}
	if !strings.Contains(all, ImagePlaceholder(0)) {
		t.Error("image placeholder missing")
	}
	if !strings.Contains(art.Pages[0], "# How Things Work") {
		t.Errorf("page 1 missing title header: %s", art.Pages[0])
	}
	if !strings.Contains(art.Pages[len(art.Pages)-1], "<footer>") {
		t.Error("final page missing attribution footer")
	}
}

func TestExtractNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestExtractor().Extract(context.Background(), srv.URL+"/gone")
	if !errors.Is(err, errors.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestExtractBadURL(t *testing.T) {
	for _, raw := range []string{"ftp://example.com/x", "not a url at all", "file:///etc/passwd", "/relative"} {
		_, err := newTestExtractor().Extract(context.Background(), raw)
		if !errors.Is(err, errors.ErrValidation) {
			t.Errorf("Extract(%q): expected ErrValidation, got %v", raw, err)
		}
	}
}

func TestExtractSinglePageArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Short</title></head><body><article><p>A short note without any headings, but with enough text.</p></article></body></html>`))
	}))
	defer srv.Close()

	art, err := newTestExtractor().Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(art.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(art.Pages))
	}
	if !strings.Contains(art.Pages[0], "enough text") {
		t.Errorf("page = %s", art.Pages[0])
	}
}

func TestFetchPageUsesCacheTTL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<html><body>cached</body></html>"))
	}))
	defer srv.Close()

	db := newTestCache(t)
	f := NewFetcher(FetcherOptions{Cache: db, CacheTTL: time.Minute}, testLogger())

	u, err := ParseURL(srv.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.FetchPage(context.Background(), u); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("expected 1 origin hit, got %d", hits)
	}
}
