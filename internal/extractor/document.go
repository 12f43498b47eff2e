package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Node is the read-only view of a document tree the extractor needs.
// Every lookup takes an ordered selector list; the first selector that
// yields a match wins.
type Node interface {
	// First returns the first descendant matching the selector list
	First(selectors ...string) (Node, bool)

	// All returns every descendant matching the first selector that matches anything
	All(selectors ...string) []Node

	// Text returns the combined text content of the node and its descendants
	Text() string

	// Attr returns the value of the named attribute
	Attr(name string) (string, bool)
}

// selectionNode implements Node on top of a goquery selection
type selectionNode struct {
	sel *goquery.Selection
}

// NewDocument parses html into a Node rooted at the document
func NewDocument(html string) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("HTML parsing error: %w", err)
	}
	return selectionNode{sel: doc.Selection}, nil
}

// FromSelection wraps an existing goquery selection
func FromSelection(sel *goquery.Selection) Node {
	return selectionNode{sel: sel}
}

func (n selectionNode) First(selectors ...string) (Node, bool) {
	for _, selector := range selectors {
		found := n.sel.Find(selector).First()
		if found.Length() > 0 {
			return selectionNode{sel: found}, true
		}
	}
	return nil, false
}

func (n selectionNode) All(selectors ...string) []Node {
	for _, selector := range selectors {
		found := n.sel.Find(selector)
		if found.Length() == 0 {
			continue
		}

		nodes := make([]Node, 0, found.Length())
		found.Each(func(_ int, s *goquery.Selection) {
			nodes = append(nodes, selectionNode{sel: s})
		})
		return nodes
	}
	return nil
}

func (n selectionNode) Text() string {
	return n.sel.Text()
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}
