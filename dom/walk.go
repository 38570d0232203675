package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// NearestAncestorMatching climbs from n toward the root, at most maxDepth
// levels, and returns the first ancestor for which pred is true. n itself
// is not considered. Returns nil when no ancestor matches within the
// bound.
func NearestAncestorMatching(n *html.Node, maxDepth int, pred func(*html.Node) bool) *html.Node {
	cur := n
	for depth := 0; depth < maxDepth; depth++ {
		cur = cur.Parent
		if cur == nil || cur.Type == html.DocumentNode {
			return nil
		}
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// Ancestors returns up to maxDepth element ancestors of n, nearest first.
func Ancestors(n *html.Node, maxDepth int) []*html.Node {
	var out []*html.Node
	cur := n.Parent
	for cur != nil && cur.Type == html.ElementNode && len(out) < maxDepth {
		out = append(out, cur)
		cur = cur.Parent
	}
	return out
}

// PrecedingSiblings returns the element siblings before n, nearest first.
func PrecedingSiblings(n *html.Node) []*html.Node {
	var out []*html.Node
	for cur := n.PrevSibling; cur != nil; cur = cur.PrevSibling {
		if cur.Type == html.ElementNode {
			out = append(out, cur)
		}
	}
	return out
}

// Walk visits every node of the subtree rooted at n in document order.
// Returning false from visit stops the walk.
func Walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, visit) {
			return false
		}
	}
	return true
}

// Text returns the concatenated text content of the subtree, with runs of
// whitespace collapsed to single spaces.
func Text(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// OwnText returns only the direct text children of n, collapsed.
func OwnText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present, regardless of value.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element with the given tag name.
func IsElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// CountMatching counts the nodes in the subtree rooted at n matching m.
func CountMatching(n *html.Node, m cascadia.Selector) int {
	return len(m.MatchAll(n))
}

// FirstMatching returns the first node in the subtree matching m, or nil.
func FirstMatching(n *html.Node, m cascadia.Selector) *html.Node {
	return m.MatchFirst(n)
}

// IsLeafLike reports whether the subtree under n is small enough to be
// treated as a single display unit (a price tag, a badge, a label). The
// proximity search only reads prices out of leaf-like descendants so a
// section-wide container can never contribute its whole text.
func IsLeafLike(n *html.Node) bool {
	elements := 0
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode {
			elements++
		}
		return elements <= 3
	})
	return elements <= 3
}

// Contains reports whether ancestor's subtree includes n.
func Contains(ancestor, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}
