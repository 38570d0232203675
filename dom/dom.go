// Package dom wraps a parsed HTML page into a browser-free snapshot and
// provides the bounded tree-walking helpers the classification and price
// heuristics are built on. Nothing in this package touches a live page:
// everything operates on goquery documents and x/net/html nodes, so the
// heuristics are testable against string fixtures.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Snapshot is one immutable parsed page.
type Snapshot struct {
	doc  *goquery.Document
	root *html.Node
}

// Parse builds a Snapshot from raw HTML.
func Parse(rawHTML string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	var root *html.Node
	if len(doc.Nodes) > 0 {
		root = doc.Nodes[0]
	}
	return &Snapshot{doc: doc, root: root}, nil
}

// Doc exposes the underlying goquery document.
func (s *Snapshot) Doc() *goquery.Document { return s.doc }

// Root returns the document root node.
func (s *Snapshot) Root() *html.Node { return s.root }

// Find runs a CSS selector over the whole document.
func (s *Snapshot) Find(selector string) *goquery.Selection {
	return s.doc.Find(selector)
}

// QueryAll returns every node under the document root matching m.
func (s *Snapshot) QueryAll(m cascadia.Selector) []*html.Node {
	if s.root == nil {
		return nil
	}
	return m.MatchAll(s.root)
}

// Compiled matchers shared by the classifier, the price resolver and the
// image indexer. A major section is headed by a top-level heading; its
// optional sub-sections by a secondary heading.
var (
	// PrimaryHeading heads a major section of the configurator page.
	PrimaryHeading = cascadia.MustCompile("h1, h2")

	// SecondaryHeading heads a sub-section within a major section.
	SecondaryHeading = cascadia.MustCompile("h3, h4, h5")

	// Control matches the selectable controls whose value attribute
	// carries the option code.
	Control = cascadia.MustCompile(`input[type="radio"][value], input[type="checkbox"][value]`)

	// AnyControl matches controls regardless of a value attribute; used
	// for the sibling-control bound of the proximity search.
	AnyControl = cascadia.MustCompile(`input[type="radio"], input[type="checkbox"]`)

	// OptionAnchor matches anchors that may reference an option code in
	// their href.
	OptionAnchor = cascadia.MustCompile("a[href]")

	// PageImage matches image-bearing elements scanned by the indexer.
	PageImage = cascadia.MustCompile("img[src], source[srcset], [style*=background]")
)
