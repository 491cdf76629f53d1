// Package normalize rewrites converted page markup into its served form:
// canonical media URLs, container-relative layout width, and normalized
// language codes.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// Converted documents reference images three ways: an absolute
// filesystem-style path left by the converter's media extraction, a bare
// media/ path, and a ./media/ path. All collapse to the book's media
// endpoint. The absolute pattern also matches an already-canonical URL and
// rewrites it to itself, so the operation is idempotent.
var (
	absMediaPattern  = regexp.MustCompile(`src="/[^"]*?/media/([^"]+)"`)
	bareMediaPattern = regexp.MustCompile(`src="media/([^"]+)"`)
	relMediaPattern  = regexp.MustCompile(`src="\./media/([^"]+)"`)
)

// ImagePaths rewrites image src attributes in a page document to the
// book's canonical media endpoint, /api/books/{bookID}/media/{name}.
func ImagePaths(html, bookID string) string {
	canonical := `src="/api/books/` + bookID + `/media/$1"`
	html = absMediaPattern.ReplaceAllString(html, canonical)
	html = bareMediaPattern.ReplaceAllString(html, canonical)
	html = relMediaPattern.ReplaceAllString(html, canonical)
	return html
}

// The page template constrains content to 800px. Served pages defer to the
// reader's own layout instead. Only this exact literal is targeted.
var layoutWidthPattern = regexp.MustCompile(`max-width:\s*800px`)

// LayoutWidth replaces the page template's fixed content width with a
// container-filling one. Other width declarations pass through unchanged.
func LayoutWidth(html string) string {
	return layoutWidthPattern.ReplaceAllString(html, "max-width: 100%")
}

// LanguageCode normalizes a language identifier to its ISO 639-1 base code:
// "en-US" -> "en", "jpn" -> "ja". Returns empty string for values that do
// not parse as a language tag.
func LanguageCode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	tag, err := language.Parse(s)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
