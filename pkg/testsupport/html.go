package testsupport

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// ParseHTML parses a rendered document or fails the test.
func ParseHTML(t *testing.T, doc []byte) *html.Node {
	t.Helper()

	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return root
}

// FindAll returns every element below n with the given tag name, in document
// order.
func FindAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

// FindByID returns the first element whose id attribute equals id.
func FindByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && Attr(n, "id") == id {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := FindByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, regardless of value.
func HasAttr(n *html.Node, name string) bool {
	if n == nil {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == name {
			return true
		}
	}
	return false
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			out = append(out, child)
		}
	}
	return out
}

// Step is one compound of a child-combinator path: a tag plus an optional
// 1-based nth-child position (0 means any position).
type Step struct {
	Tag string
	Nth int
}

// Select follows a `a > b > c:nth-child(n)` path from n and returns every
// element it reaches.
func Select(n *html.Node, steps ...Step) []*html.Node {
	current := []*html.Node{n}
	for _, step := range steps {
		var next []*html.Node
		for _, parent := range current {
			for i, child := range Children(parent) {
				if child.Data != step.Tag {
					continue
				}
				if step.Nth > 0 && i+1 != step.Nth {
					continue
				}
				next = append(next, child)
			}
		}
		current = next
	}
	return current
}

// CellStyle resolves
// `#app > main > div > div > table > tbody > tr:nth-child(row) > td:nth-child(col) > div`
// and returns the style attribute of the single matching element. ok is false
// when the path does not resolve to exactly one element.
func CellStyle(root *html.Node, row, col int) (style string, ok bool) {
	app := FindByID(root, "app")
	if app == nil {
		return "", false
	}
	matches := Select(app,
		Step{Tag: "main"},
		Step{Tag: "div"},
		Step{Tag: "div"},
		Step{Tag: "table"},
		Step{Tag: "tbody"},
		Step{Tag: "tr", Nth: row},
		Step{Tag: "td", Nth: col},
		Step{Tag: "div"},
	)
	if len(matches) != 1 {
		return "", false
	}
	return strings.TrimSpace(Attr(matches[0], "style")), true
}
