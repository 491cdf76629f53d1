// Package splitter partitions one converted HTML document into an ordered
// sequence of standalone page documents plus a separated table-of-contents
// fragment.
package splitter

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Result is the output of splitting one document.
type Result struct {
	// Pages are standalone HTML documents in reading order.
	Pages []string
	// TOC is the extracted table-of-contents fragment, empty when the
	// source document had none.
	TOC string
}

// Split partitions a converted HTML document into pages.
//
// Section boundaries are detected in priority order: containers classed
// level1 together with h1 headings first, then h2 headings, then the whole
// body as a single page. A missing head or body never fails the operation.
func Split(doc string) (*Result, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	head := renderChildren(findElement(root, "head"))

	body := findElement(root, "body")
	if body == nil {
		// The parser synthesizes a body for any input; nil means an
		// empty document.
		return &Result{Pages: []string{BuildPage(head, "")}}, nil
	}

	toc := extractTOC(body)

	sections := detectSections(body)
	if len(sections) == 0 {
		sections = []string{renderChildren(body)}
	}

	pages := make([]string, len(sections))
	for i, section := range sections {
		pages[i] = BuildPage(head, section)
	}

	return &Result{Pages: pages, TOC: toc}, nil
}

// extractTOC finds the fragment with id="TOC", removes it from the tree,
// and returns its rendered form.
func extractTOC(body *html.Node) string {
	node := findByID(body, "TOC")
	if node == nil {
		return ""
	}
	rendered := renderNode(node)
	node.Parent.RemoveChild(node)
	return rendered
}

// detectSections walks the body's child sequence and groups it into
// sections. Rule one treats each level1-classed section/div as a complete
// section and each h1 as the start of a run reaching to the next boundary.
// Rule two does the same with h2 headings. Content preceding the first
// boundary belongs to no section. An empty result means neither rule
// matched.
func detectSections(body *html.Node) []string {
	children := elementRun(body)

	if sections := splitRun(children, isLevel1Boundary, isLevel1Container); len(sections) > 0 {
		return sections
	}
	isH2 := func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "h2" }
	never := func(n *html.Node) bool { return false }
	return splitRun(children, isH2, never)
}

// elementRun returns the node sequence to split. A body whose only element
// child wraps everything is unwrapped one level, so converter output nested
// in a single container still splits.
func elementRun(body *html.Node) []*html.Node {
	children := childNodes(body)

	var sole *html.Node
	for _, c := range children {
		if c.Type == html.ElementNode {
			if sole != nil {
				return children
			}
			sole = c
		} else if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return children
		}
	}
	if sole == nil || isLevel1Boundary(sole) || sole.Data == "h2" {
		return children
	}
	return childNodes(sole)
}

// splitRun groups nodes into sections. A node satisfying selfContained is a
// section on its own; any other boundary node starts a section that runs to
// the next boundary.
func splitRun(nodes []*html.Node, boundary, selfContained func(*html.Node) bool) []string {
	var sections []string
	var current []*html.Node

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, renderNodes(current))
			current = nil
		}
	}

	inSection := false
	for _, n := range nodes {
		if boundary(n) {
			flush()
			if selfContained(n) {
				sections = append(sections, renderNode(n))
				inSection = false
				continue
			}
			inSection = true
		}
		if inSection {
			current = append(current, n)
		}
	}
	flush()

	return sections
}

func isLevel1Boundary(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "h1" {
		return true
	}
	return isLevel1Container(n)
}

func isLevel1Container(n *html.Node) bool {
	if n.Type != html.ElementNode || (n.Data != "section" && n.Data != "div") {
		return false
	}
	return hasClassToken(n, "level1")
}

func hasClassToken(n *html.Node, token string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == token {
				return true
			}
		}
	}
	return false
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// findElement returns the first element with the given tag, depth-first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findByID returns the first element whose id attribute equals id.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

func renderNodes(nodes []*html.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		html.Render(&sb, n)
	}
	return sb.String()
}

// renderChildren renders the inner content of a node; empty string for nil.
func renderChildren(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&sb, c)
	}
	return sb.String()
}

// StripText returns the plain text of an HTML fragment with whitespace
// collapsed. Used to judge whether a section carries real content.
func StripText(fragment string) string {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	var sb strings.Builder
	collectText(root, &sb)
	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
