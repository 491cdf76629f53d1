package extract

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/tsuji1/hep-reader-sub001/internal/splitter"
)

// headingPrefixes are the literal Markdown-style markers prepended to
// heading text.
var headingPrefixes = map[string]string{
	"h1": "# ",
	"h2": "## ",
	"h3": "### ",
}

// PrefixHeadings prepends Markdown-style markers to h1-h3 text, exactly
// once. Headings already carrying their marker are left alone.
func PrefixHeadings(region *html.Node) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if prefix, ok := headingPrefixes[n.Data]; ok {
				prefixHeading(n, prefix)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(region)
}

func prefixHeading(h *html.Node, prefix string) {
	text := strings.TrimSpace(splitter.StripText(renderChildren(h)))
	if strings.HasPrefix(text, prefix) {
		return
	}
	h.InsertBefore(&html.Node{Type: html.TextNode, Data: prefix}, h.FirstChild)
}

// SplitSections partitions the region's content at h2 boundaries. Content
// before the first h2 forms the leading section. A section survives only
// if its stripped text exceeds minText characters; when fewer than two
// sections survive, the whole content is one section.
func SplitSections(region *html.Node, minText int) []string {
	var sections []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, ""))
			current = nil
		}
	}

	for c := region.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "h2" {
			flush()
		}
		current = append(current, renderNode(c))
	}
	flush()

	var kept []string
	for _, sec := range sections {
		if utf8.RuneCountInString(splitter.StripText(sec)) >= minText {
			kept = append(kept, sec)
		}
	}

	if len(kept) < 2 {
		return []string{renderChildren(region)}
	}
	return kept
}

// BuildPages wraps article sections into standalone page documents. The
// first page carries the title header (with the site name when known); the
// last page carries a source-attribution footer.
func BuildPages(sections []string, meta Metadata, source *url.URL) []string {
	pages := make([]string, len(sections))
	head := "<title>" + html.EscapeString(meta.Title) + "</title>"

	for i, section := range sections {
		body := section
		if i == 0 {
			body = articleHeader(meta) + body
		}
		if i == len(sections)-1 {
			body += attributionFooter(source)
		}
		pages[i] = splitter.BuildPage(head, body)
	}
	return pages
}

func articleHeader(meta Metadata) string {
	var sb strings.Builder
	sb.WriteString("<header><h1># ")
	sb.WriteString(html.EscapeString(meta.Title))
	sb.WriteString("</h1>")
	if meta.SiteName != "" {
		sb.WriteString(`<p class="site-name">`)
		sb.WriteString(html.EscapeString(meta.SiteName))
		sb.WriteString("</p>")
	}
	sb.WriteString("</header>")
	return sb.String()
}

func attributionFooter(source *url.URL) string {
	u := html.EscapeString(source.String())
	return `<footer><p>Source: <a href="` + u + `">` + u + `</a></p></footer>`
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func renderChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&sb, c)
	}
	return sb.String()
}
