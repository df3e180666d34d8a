// Package dom provides a minimal node abstraction over parsed HTML: tag name,
// children, flattened text and tag matching.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags end with a line break when flattened to text.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true,
}

// Node wraps a single HTML node.
type Node struct {
	n *html.Node
}

// Parse parses an HTML document and returns its <body> element.
func Parse(content string) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, fmt.Errorf("failed to parse HTML: no body element")
	}
	return &Node{n: body.Get(0)}, nil
}

// Fragment parses an HTML fragment wrapped in a <div> and returns that div.
func Fragment(content string) (*Node, error) {
	body, err := Parse("<div>" + content + "</div>")
	if err != nil {
		return nil, err
	}
	for c := body.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return &Node{n: c}, nil
		}
	}
	return body, nil
}

// Tag returns the lowercase tag name, or "" for non-element nodes.
func (n *Node) Tag() string {
	if n.n.Type != html.ElementNode {
		return ""
	}
	return n.n.Data
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n.n.Type == html.ElementNode
}

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool {
	return n.n.Type == html.TextNode
}

// Matches reports whether the node is an element with one of the given tags.
func (n *Node) Matches(tags ...string) bool {
	if n.n.Type != html.ElementNode {
		return false
	}
	for _, t := range tags {
		if n.n.Data == t {
			return true
		}
	}
	return false
}

// Children returns the element children and the text children that contain
// something other than whitespace.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			out = append(out, &Node{n: c})
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				out = append(out, &Node{n: c})
			}
		}
	}
	return out
}

// Text returns the flattened text content. Block-level elements are followed
// by a newline so adjacent paragraphs and list items stay separable.
func (n *Node) Text() string {
	var sb strings.Builder
	writeText(&sb, n.n)
	return sb.String()
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		s := sb.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			sb.WriteByte('\n')
		}
	}
}

// FindAll returns every descendant element with one of the given tags, in
// document order. Nested matches are included.
func (n *Node) FindAll(tags ...string) []*Node {
	var out []*Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			node := &Node{n: c}
			if node.Matches(tags...) {
				out = append(out, node)
			}
			walk(c)
		}
	}
	walk(n.n)
	return out
}

// First returns the first descendant element with one of the given tags.
func (n *Node) First(tags ...string) *Node {
	found := n.FindAll(tags...)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// OuterHTML renders the node including its own tag.
func (n *Node) OuterHTML() string {
	out, err := goquery.OuterHtml(goquery.NewDocumentFromNode(n.n).Selection)
	if err != nil {
		return ""
	}
	return out
}

// InnerHTML renders the node's children.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// Join renders nodes back to back.
func Join(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.OuterHTML())
	}
	return sb.String()
}

// JoinText returns the flattened text of nodes rendered back to back, the
// same text Join's HTML would flatten to.
func JoinText(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		writeText(&sb, n.n)
	}
	return sb.String()
}
