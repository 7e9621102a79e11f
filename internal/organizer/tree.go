package organizer

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Link is an anchor's href attribute and trimmed visible text
type Link struct {
	Href string
	Text string
}

// Node is an element in a page tree
type Node interface {
	// NextSiblings returns up to n following sibling elements
	NextSiblings(n int) []Node
	// FirstLink returns the first anchor below the node, if any
	FirstLink() (Link, bool)
}

// Tree is a parsed event page
type Tree interface {
	// TextParents returns, in document order, the parent element of every
	// text node whose content matches pattern.
	TextParents(pattern *regexp.Regexp) []Node
	// Anchors returns, in document order, every anchor whose content is a
	// single string, possibly wrapped in single-child elements. Anchors
	// with mixed content are left out.
	Anchors() []Link
	// Markup returns the page serialized back to HTML
	Markup() string
}

// NewTree wraps a goquery document as a Tree
func NewTree(doc *goquery.Document) Tree {
	return &htmlTree{doc: doc}
}

type htmlTree struct {
	doc *goquery.Document
}

func (t *htmlTree) TextParents(pattern *regexp.Regexp) []Node {
	var nodes []Node
	for _, root := range t.doc.Nodes {
		walk(root, func(n *html.Node) {
			if n.Type == html.TextNode && n.Parent != nil && pattern.MatchString(n.Data) {
				nodes = append(nodes, htmlNode{n.Parent})
			}
		})
	}
	return nodes
}

func (t *htmlTree) Anchors() []Link {
	var links []Link
	t.doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		text, ok := singleString(a.Get(0))
		if !ok {
			return
		}
		href, _ := a.Attr("href")
		links = append(links, Link{Href: strings.TrimSpace(href), Text: strings.TrimSpace(text)})
	})
	return links
}

func (t *htmlTree) Markup() string {
	var buf bytes.Buffer
	for _, root := range t.doc.Nodes {
		if err := html.Render(&buf, root); err != nil {
			break
		}
	}
	return buf.String()
}

type htmlNode struct {
	n *html.Node
}

func (h htmlNode) NextSiblings(limit int) []Node {
	var siblings []Node
	for s := h.n.NextSibling; s != nil && len(siblings) < limit; s = s.NextSibling {
		if s.Type == html.ElementNode {
			siblings = append(siblings, htmlNode{s})
		}
	}
	return siblings
}

func (h htmlNode) FirstLink() (Link, bool) {
	a := goquery.NewDocumentFromNode(h.n).Find("a").First()
	if a.Length() == 0 {
		return Link{}, false
	}
	return linkFrom(a), true
}

func linkFrom(a *goquery.Selection) Link {
	href, _ := a.Attr("href")
	return Link{
		Href: strings.TrimSpace(href),
		Text: strings.TrimSpace(a.Text()),
	}
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// singleString descends through single-child elements and returns the text
// node at the bottom, if there is one
func singleString(n *html.Node) (string, bool) {
	for {
		c := n.FirstChild
		if c == nil || c.NextSibling != nil {
			return "", false
		}
		switch c.Type {
		case html.TextNode:
			return c.Data, true
		case html.ElementNode:
			n = c
		default:
			return "", false
		}
	}
}
