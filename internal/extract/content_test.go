package extract

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		t.Fatalf("render: %v", err)
	}
	return sb.String()
}

func TestCleanRemovesBoilerplate(t *testing.T) {
	doc := `<html><body>
<nav>menu</nav>
<div class="sidebar">links</div>
<div class="social-share">buttons</div>
<div id="comments">chatter</div>
<script>var x;</script>
<noscript>enable js</noscript>
<article><p>The story.</p></article>
<footer>copyright</footer>
</body></html>`

	root := parseDoc(t, doc)
	Clean(root)
	out := render(t, root)

	for _, gone := range []string{"menu", "links", "buttons", "chatter", "var x", "enable js", "copyright"} {
		if strings.Contains(out, gone) {
			t.Errorf("expected %q removed, got %s", gone, out)
		}
	}
	if !strings.Contains(out, "The story.") {
		t.Errorf("article content lost: %s", out)
	}
}

func TestCleanKeepsContentWordClasses(t *testing.T) {
	// "header" inside a class like "masthead" or a word containing "ad"
	// must not trigger removal.
	doc := `<html><body><div class="download-badge"><p>Download the dataset.</p></div></body></html>`
	root := parseDoc(t, doc)
	Clean(root)
	if !strings.Contains(render(t, root), "Download the dataset.") {
		t.Error("content with ad-substring class was removed")
	}
}

func TestSelectContentPriority(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			"article wins",
			`<body><main><p>main text</p></main><article><p>article text</p></article></body>`,
			"article text",
		},
		{
			"main next",
			`<body><main><p>main text</p></main><div class="content"><p>classed</p></div></body>`,
			"main text",
		},
		{
			"role main",
			`<body><div role="main"><p>role text</p></div><div class="content"><p>classed</p></div></body>`,
			"role text",
		},
		{
			"content class",
			`<body><div class="entry-content"><p>classed text</p></div><p>stray</p></body>`,
			"classed text",
		},
		{
			"body fallback",
			`<body><p>whole body text</p></body>`,
			"whole body text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			region := SelectContent(parseDoc(t, tt.doc))
			if got := render(t, region); !strings.Contains(got, tt.want) {
				t.Errorf("selected region = %s, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestCollectImages(t *testing.T) {
	doc := `<body><article>
<img src="/img/a.png" class="full" loading="lazy" srcset="/img/a-2x.png 2x">
<img data-src="https://cdn.example.com/b.webp">
<img src="data:image/gif;base64,R0lGOD" data-lazy-src="c.gif">
<img alt="no source at all">
</article></body>`

	root := parseDoc(t, doc)
	region := SelectContent(root)
	images := CollectImages(region, mustURL(t, "https://example.com/post/"))

	want := []string{
		"https://example.com/img/a.png",
		"https://cdn.example.com/b.webp",
		"https://example.com/post/c.gif",
	}
	if len(images) != len(want) {
		t.Fatalf("images = %v, want %v", images, want)
	}
	for i := range want {
		if images[i] != want[i] {
			t.Errorf("images[%d] = %q, want %q", i, images[i], want[i])
		}
	}

	out := render(t, region)
	for i := range want {
		if !strings.Contains(out, ImagePlaceholder(i)) {
			t.Errorf("missing placeholder %d in %s", i, out)
		}
	}
	for _, gone := range []string{"srcset", "loading", "data-src", "no source at all"} {
		if strings.Contains(out, gone) {
			t.Errorf("expected %q stripped, got %s", gone, out)
		}
	}
}

func TestMediaFilename(t *testing.T) {
	tests := []struct {
		index    int
		url      string
		expected string
	}{
		{0, "https://e.com/pic.png", "0.png"},
		{1, "https://e.com/pic.JPEG?w=800", "1.jpeg"},
		{2, "https://e.com/pic", "2.jpg"},
		{3, "https://e.com/weird.verylongext", "3.jpg"},
	}
	for _, tt := range tests {
		if got := MediaFilename(tt.index, tt.url); got != tt.expected {
			t.Errorf("MediaFilename(%d, %q) = %q, want %q", tt.index, tt.url, got, tt.expected)
		}
	}
}

func TestSanitizeAttributes(t *testing.T) {
	doc := `<body><p class="x" style="color:red" onclick="evil()" title="keep"><a href="/a" target="_blank">link</a></p></body>`
	root := parseDoc(t, doc)
	SanitizeAttributes(root)
	out := render(t, root)

	for _, gone := range []string{"class=", "style=", "onclick=", "target="} {
		if strings.Contains(out, gone) {
			t.Errorf("expected %q stripped, got %s", gone, out)
		}
	}
	if !strings.Contains(out, `href="/a"`) || !strings.Contains(out, `title="keep"`) {
		t.Errorf("whitelisted attributes lost: %s", out)
	}
}

func TestPruneEmpty(t *testing.T) {
	doc := `<body><div><div><span> </span><p></p></div></div><p>kept text</p><div><img src="media/0.img"></div></body>`
	root := parseDoc(t, doc)
	PruneEmpty(root)
	out := render(t, root)

	if strings.Contains(out, "<span>") || strings.Count(out, "<div>") != 1 {
		t.Errorf("empty elements not pruned: %s", out)
	}
	if !strings.Contains(out, "kept text") {
		t.Errorf("text content lost: %s", out)
	}
	if !strings.Contains(out, "media/0.img") {
		t.Errorf("image-bearing div pruned: %s", out)
	}
}
