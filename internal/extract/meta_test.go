package extract

import (
	"net/url"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, doc string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func TestExtractMetadataPriority(t *testing.T) {
	doc := `<html><head>
<title>Doc Title</title>
<meta property="og:title" content="OG Title">
<meta name="twitter:title" content="Twitter Title">
<meta property="og:description" content="OG description.">
<meta name="description" content="Plain description.">
<meta property="og:image" content="/img/hero.png">
<meta property="og:site_name" content="Example Blog">
<link rel="icon" href="/static/fav.png">
</head><body></body></html>`

	m := ExtractMetadata(parseDoc(t, doc), mustURL(t, "https://example.com/post/1"))

	if m.Title != "OG Title" {
		t.Errorf("title = %q, want OG Title", m.Title)
	}
	if m.Description != "OG description." {
		t.Errorf("description = %q", m.Description)
	}
	if m.Image != "https://example.com/img/hero.png" {
		t.Errorf("image = %q", m.Image)
	}
	if m.Favicon != "https://example.com/static/fav.png" {
		t.Errorf("favicon = %q", m.Favicon)
	}
	if m.SiteName != "Example Blog" {
		t.Errorf("site name = %q", m.SiteName)
	}
}

func TestExtractMetadataFallbacks(t *testing.T) {
	doc := `<html><head>
<meta name="twitter:title" content="Tweeted">
<meta name="twitter:image" content="https://cdn.example.com/t.jpg">
</head><body></body></html>`

	m := ExtractMetadata(parseDoc(t, doc), mustURL(t, "https://example.com/a"))

	if m.Title != "Tweeted" {
		t.Errorf("title = %q, want twitter fallback", m.Title)
	}
	if m.Image != "https://cdn.example.com/t.jpg" {
		t.Errorf("image = %q", m.Image)
	}
	if m.Favicon != "https://example.com/favicon.ico" {
		t.Errorf("favicon = %q, want conventional default", m.Favicon)
	}
}

func TestExtractMetadataDocTitleAndUntitled(t *testing.T) {
	m := ExtractMetadata(parseDoc(t, `<html><head><title>  Doc  </title></head><body></body></html>`), mustURL(t, "https://e.com/"))
	if m.Title != "Doc" {
		t.Errorf("title = %q, want Doc", m.Title)
	}

	m = ExtractMetadata(parseDoc(t, `<html><head></head><body></body></html>`), mustURL(t, "https://e.com/"))
	if m.Title != "Untitled" {
		t.Errorf("title = %q, want Untitled", m.Title)
	}
	if m.Description != "" {
		t.Errorf("description = %q, want empty", m.Description)
	}
}
