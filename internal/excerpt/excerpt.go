// Package excerpt derives a short plain-text description from a book's
// first page.
package excerpt

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// markdownNoise strips the markup markdown keeps that a one-line
// description should not: heading markers, emphasis, images, link targets.
var (
	headingMarkers = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	imageSyntax    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkSyntax     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emphasis       = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
)

// FromHTML condenses page markup into a description of at most maxRunes
// characters, ending with an ellipsis when truncated.
func FromHTML(html string, maxRunes int) string {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		md = html
	}

	md = imageSyntax.ReplaceAllString(md, "")
	md = linkSyntax.ReplaceAllString(md, "$1")
	md = headingMarkers.ReplaceAllString(md, "")
	md = emphasis.ReplaceAllString(md, "$1")

	text := strings.Join(strings.Fields(md), " ")

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
