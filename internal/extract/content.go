package extract

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// strippedTags are elements that never carry article content.
var strippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
	"iframe":   true,
	"noscript": true,
	"form":     true,
}

// noisePattern matches class and id fragments of ad, navigation, comment,
// social-share, and related-post containers.
var noisePattern = regexp.MustCompile(`(?i)(^|[\s_-])(ad|ads|advert|advertisement|sidebar|menu|comment|comments|social|share|sharing|related|recommend|promo|banner|popup|breadcrumb)([\s_-]|$)`)

// contentClasses are common main-content class tokens, tried in order after
// the semantic candidates.
var contentClasses = []string{
	"article-body",
	"article-content",
	"post-content",
	"entry-content",
	"post-body",
	"main-content",
	"content",
	"post",
	"entry",
}

// Clean removes non-content elements from a parsed page in place: scripts,
// styles, structural chrome, and containers whose class or id marks them as
// boilerplate.
func Clean(root *html.Node) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		var next *html.Node
		for c := n.FirstChild; c != nil; c = next {
			next = c.NextSibling
			if c.Type == html.ElementNode && (strippedTags[c.Data] || isNoise(c)) {
				n.RemoveChild(c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
}

func isNoise(n *html.Node) bool {
	// The article element itself is never noise, whatever its class says.
	if n.Data == "article" || n.Data == "main" || n.Data == "body" {
		return false
	}
	return noisePattern.MatchString(attr(n, "class")) || noisePattern.MatchString(attr(n, "id"))
}

// SelectContent picks the main content region of a cleaned page: article,
// then main, then role="main", then common content classes, then the whole
// body.
func SelectContent(root *html.Node) *html.Node {
	if n := findTag(root, "article"); n != nil {
		return n
	}
	if n := findTag(root, "main"); n != nil {
		return n
	}
	if n := findWhere(root, func(n *html.Node) bool { return attr(n, "role") == "main" }); n != nil {
		return n
	}
	for _, class := range contentClasses {
		if n := findWhere(root, func(n *html.Node) bool { return hasClassToken(n, class) }); n != nil {
			return n
		}
	}
	if body := findTag(root, "body"); body != nil {
		return body
	}
	return root
}

// lazySrcAttrs are lazy-load attributes tried when src is missing, in
// preference order.
var lazySrcAttrs = []string{"data-src", "data-lazy-src", "data-original"}

// droppedImgAttrs are lazy-load and responsive-source attributes stripped
// after rewriting, so the placeholder src is not overridden later.
var droppedImgAttrs = map[string]bool{
	"srcset":  true,
	"sizes":   true,
	"loading": true,
}

// CollectImages gathers every image in the region in document order,
// resolving each effective source against base. Image elements are
// rewritten to positional placeholders (media/{index}.img); images with no
// resolvable source are removed.
func CollectImages(region *html.Node, base *url.URL) []string {
	var sources []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		var next *html.Node
		for c := n.FirstChild; c != nil; c = next {
			next = c.NextSibling
			if c.Type == html.ElementNode && c.Data == "img" {
				src := imageSource(c)
				abs := resolveImageURL(base, src)
				if abs == "" {
					n.RemoveChild(c)
					continue
				}
				rewriteImage(c, len(sources))
				sources = append(sources, abs)
				continue
			}
			walk(c)
		}
	}
	walk(region)

	return sources
}

func imageSource(n *html.Node) string {
	if src := attr(n, "src"); src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	for _, key := range lazySrcAttrs {
		if src := attr(n, key); src != "" {
			return src
		}
	}
	return ""
}

func resolveImageURL(base *url.URL, src string) string {
	if src == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(u)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func rewriteImage(n *html.Node, index int) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key == "src" || droppedImgAttrs[a.Key] || strings.HasPrefix(a.Key, "data-") {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = append(kept, html.Attribute{Key: "src", Val: ImagePlaceholder(index)})
}

// ImagePlaceholder is the positional src written into extracted content;
// the download step rewrites it once the real extension is known.
func ImagePlaceholder(index int) string {
	return fmt.Sprintf("media/%d.img", index)
}

// MediaFilename derives the stored filename for a downloaded image from
// its position and source URL, defaulting to .jpg when the URL carries no
// extension.
func MediaFilename(index int, srcURL string) string {
	ext := ".jpg"
	if u, err := url.Parse(srcURL); err == nil {
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 6 {
			ext = e
		}
	}
	return fmt.Sprintf("%d%s", index, ext)
}

// SanitizeAttributes strips every element in the region down to at most
// src, href, alt, and title.
func SanitizeAttributes(region *html.Node) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				switch a.Key {
				case "src", "href", "alt", "title":
					kept = append(kept, a)
				}
			}
			n.Attr = kept
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(region)
}

// PruneEmpty removes div, span, and p elements that contain no text and no
// image, bottom-up so emptied ancestors go too.
func PruneEmpty(region *html.Node) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		var next *html.Node
		for c := n.FirstChild; c != nil; c = next {
			walk(c)
			next = c.NextSibling
			if isPrunable(c) {
				n.RemoveChild(c)
			}
		}
	}
	walk(region)
}

func isPrunable(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "div", "span", "p":
	default:
		return false
	}
	return !hasContent(n)
}

func hasContent(n *html.Node) bool {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
		return true
	}
	if n.Type == html.ElementNode && n.Data == "img" {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasContent(c) {
			return true
		}
	}
	return false
}

func findTag(root *html.Node, tag string) *html.Node {
	return findWhere(root, func(n *html.Node) bool { return n.Data == tag })
}

func findWhere(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findWhere(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func hasClassToken(n *html.Node, token string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if strings.EqualFold(c, token) {
			return true
		}
	}
	return false
}
