package splitter

import (
	"strings"
	"testing"
)

func TestSplitByH1(t *testing.T) {
	res, err := Split(`<body><h1>A</h1>X<h1>B</h1>Y</body>`)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	if !strings.Contains(res.Pages[0], "A") || !strings.Contains(res.Pages[0], "X") {
		t.Errorf("page 1 missing content: %s", res.Pages[0])
	}
	if strings.Contains(res.Pages[0], "<h1>B</h1>") {
		t.Errorf("page 1 leaked page 2 content: %s", res.Pages[0])
	}
	if !strings.Contains(res.Pages[1], "B") || !strings.Contains(res.Pages[1], "Y") {
		t.Errorf("page 2 missing content: %s", res.Pages[1])
	}
}

func TestSplitByLevel1Sections(t *testing.T) {
	doc := `<html><head><title>Book</title></head><body>
<section class="level1"><h1>One</h1><p>First chapter.</p></section>
<section class="level1"><h1>Two</h1><p>Second chapter.</p></section>
<div class="level1 extra"><p>Appendix.</p></div>
</body></html>`

	res, err := Split(doc)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(res.Pages))
	}
	if !strings.Contains(res.Pages[0], "First chapter.") {
		t.Errorf("page 1 = %s", res.Pages[0])
	}
	if !strings.Contains(res.Pages[2], "Appendix.") {
		t.Errorf("page 3 = %s", res.Pages[2])
	}
	// Class matching uses whole tokens only.
	if got, _ := Split(`<body><div class="level10"><p>x</p></div></body>`); len(got.Pages) != 1 {
		t.Errorf("level10 class should not split, got %d pages", len(got.Pages))
	}
}

func TestSplitFallsBackToH2(t *testing.T) {
	doc := `<body><h2>Intro</h2><p>First part text.</p><h2>Body</h2><p>Second part text.</p></body>`

	res, err := Split(doc)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	if !strings.Contains(res.Pages[0], "First part text.") {
		t.Errorf("page 1 = %s", res.Pages[0])
	}
	if !strings.Contains(res.Pages[1], "Second part text.") {
		t.Errorf("page 2 = %s", res.Pages[1])
	}
}

func TestSplitHeadingLessDocument(t *testing.T) {
	res, err := Split(`<body><p>Just a paragraph.</p><p>Another.</p></body>`)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("expected single page, got %d", len(res.Pages))
	}
	if !strings.Contains(res.Pages[0], "Just a paragraph.") || !strings.Contains(res.Pages[0], "Another.") {
		t.Errorf("page = %s", res.Pages[0])
	}
}

func TestSplitNoHeadNoBody(t *testing.T) {
	res, err := Split(`<p>bare fragment</p>`)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(res.Pages))
	}
	if !strings.Contains(res.Pages[0], "bare fragment") {
		t.Errorf("page = %s", res.Pages[0])
	}
}

func TestSplitExtractsTOC(t *testing.T) {
	doc := `<body><nav id="TOC"><ul><li><a href="#ch1">One</a></li></ul></nav><h1>One</h1><p>Text.</p></body>`

	res, err := Split(doc)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if res.TOC == "" {
		t.Fatal("expected TOC fragment")
	}
	if !strings.Contains(res.TOC, `id="TOC"`) || !strings.Contains(res.TOC, "ch1") {
		t.Errorf("toc = %s", res.TOC)
	}
	for i, page := range res.Pages {
		if strings.Contains(page, `id="TOC"`) {
			t.Errorf("page %d still contains TOC", i+1)
		}
	}
}

func TestSplitReusesHeadContent(t *testing.T) {
	doc := `<html><head><title>My Book</title><link rel="stylesheet" href="extra.css"></head><body><h1>A</h1>X<h1>B</h1>Y</body></html>`

	res, err := Split(doc)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	for i, page := range res.Pages {
		if !strings.Contains(page, "<title>My Book</title>") {
			t.Errorf("page %d missing head content", i+1)
		}
		if !strings.Contains(page, `<meta charset="utf-8">`) {
			t.Errorf("page %d missing charset", i+1)
		}
		if !strings.Contains(page, "viewport") {
			t.Errorf("page %d missing viewport", i+1)
		}
		if !strings.Contains(page, "max-width: 800px") {
			t.Errorf("page %d missing default stylesheet", i+1)
		}
	}
}

func TestSplitUnwrapsSingleContainer(t *testing.T) {
	doc := `<body><div id="book"><h1>One</h1><p>First.</p><h1>Two</h1><p>Second.</p></div></body>`

	res, err := Split(doc)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
}

func TestSplitPageNumbersContiguous(t *testing.T) {
	doc := `<body><h1>1</h1><h1>2</h1><h1>3</h1><h1>4</h1></body>`
	res, err := Split(doc)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(res.Pages) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(res.Pages))
	}
	for i, page := range res.Pages {
		if page == "" {
			t.Errorf("page %d empty", i+1)
		}
	}
}

func TestStripText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>hello <b>world</b></p>", "hello world"},
		{"<div>  spaced   out  </div>", "spaced out"},
		{"<p></p>", ""},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := StripText(tt.input); got != tt.expected {
			t.Errorf("StripText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildPage(t *testing.T) {
	page := BuildPage("<title>T</title>", "<p>body</p>")
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<meta charset="utf-8">`,
		"<title>T</title>",
		"line-height: 1.8;",
		"background-color: #fafafa;",
		"#2c3e50",
		"#3498db",
		"#f4f4f4",
		"<p>body</p>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
