package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Metadata is what a page says about itself. All URLs are absolute,
// resolved against the page's own URL.
type Metadata struct {
	Title       string
	Description string
	Image       string // representative image, empty when the page has none
	Favicon     string
	SiteName    string
	Lang        string // html lang attribute, empty when absent
}

// ExtractMetadata reads a parsed page's metadata. Title prefers Open Graph,
// then Twitter card, then the document title, else "Untitled". The favicon
// falls back to the conventional /favicon.ico.
func ExtractMetadata(root *html.Node, pageURL *url.URL) Metadata {
	metas := map[string]string{}
	var docTitle, iconHref, docLang string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if docLang == "" {
					docLang = attr(n, "lang")
				}
			case "meta":
				key := attr(n, "property")
				if key == "" {
					key = attr(n, "name")
				}
				if content := attr(n, "content"); key != "" && content != "" {
					if _, seen := metas[key]; !seen {
						metas[key] = content
					}
				}
			case "link":
				rel := strings.ToLower(attr(n, "rel"))
				if iconHref == "" && strings.Contains(rel, "icon") && !strings.Contains(rel, "apple") {
					iconHref = attr(n, "href")
				}
			case "title":
				if docTitle == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					docTitle = strings.TrimSpace(n.FirstChild.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	m := Metadata{
		Title:       firstOf(metas["og:title"], metas["twitter:title"], docTitle, "Untitled"),
		Description: firstOf(metas["og:description"], metas["description"]),
		Image:       resolveURL(pageURL, firstOf(metas["og:image"], metas["twitter:image"])),
		SiteName:    metas["og:site_name"],
		Lang:        docLang,
	}

	if iconHref != "" {
		m.Favicon = resolveURL(pageURL, iconHref)
	} else {
		m.Favicon = pageURL.Scheme + "://" + pageURL.Host + "/favicon.ico"
	}

	return m
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveURL resolves a possibly-relative reference against base.
// Empty or unparsable references resolve to empty.
func resolveURL(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
