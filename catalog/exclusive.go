package catalog

import (
	"golang.org/x/net/html"

	"github.com/LouisZerri/porsche-options-sub000/dom"
)

// ExclusiveBadge is the exact badge phrase marking an option as part of
// the premium customization program.
const ExclusiveBadge = "Porsche Exclusive Manufaktur"

// exclusiveClimbMax bounds the upward search from a badge leaf to the
// control or option link it decorates.
const exclusiveClimbMax = 6

// ExclusiveIndex maps option codes to the badge-adjacent display name
// (may be "" when no adjacent name was found near the badge).
type ExclusiveIndex map[string]string

// BuildExclusiveIndex performs the page-wide top-down exclusivity pass:
// it locates every leaf whose text exactly equals the badge phrase, then
// climbs a bounded number of ancestor levels to the nearest control or
// option link and registers its code. Classification marks an option
// exclusive solely by membership in this index, never by a local
// per-option search, so badges rendered in unrelated DOM positions are
// still attributed.
func BuildExclusiveIndex(snap *dom.Snapshot) ExclusiveIndex {
	idx := make(ExclusiveIndex)
	root := snap.Root()
	if root == nil {
		return idx
	}

	dom.Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || dom.OwnText(n) != ExclusiveBadge {
			return true
		}
		code, owner := climbToOwner(n)
		if code == "" {
			return true
		}
		if _, dup := idx[code]; dup {
			return true
		}
		idx[code] = adjacentName(n, owner)
		return true
	})
	return idx
}

// climbToOwner walks up from the badge leaf until an ancestor subtree
// holds a control or an option-bearing anchor, and returns that owner's
// code.
func climbToOwner(badge *html.Node) (code string, owner *html.Node) {
	cur := badge
	for depth := 0; depth < exclusiveClimbMax; depth++ {
		cur = cur.Parent
		if cur == nil || cur.Type != html.ElementNode {
			return "", nil
		}
		if ctl := dom.FirstMatching(cur, dom.Control); ctl != nil {
			c := dom.Attr(ctl, "value")
			if codeRe.MatchString(c) {
				return c, cur
			}
		}
		for _, a := range dom.OptionAnchor.MatchAll(cur) {
			if c := CodeFromHref(dom.Attr(a, "href")); c != "" {
				return c, cur
			}
		}
	}
	return "", nil
}

// adjacentName looks for the display name rendered next to the badge:
// the nearest preceding leaf-like sibling of the badge or of its parent.
// Exclusive options substitute this name for the control's own label when
// both exist.
func adjacentName(badge, owner *html.Node) string {
	for _, from := range []*html.Node{badge, badge.Parent} {
		if from == nil || (owner != nil && !dom.Contains(owner, from)) {
			continue
		}
		for _, sib := range dom.PrecedingSiblings(from) {
			if !dom.IsLeafLike(sib) {
				continue
			}
			if text := dom.Text(sib); text != "" && text != ExclusiveBadge {
				return CleanName(text)
			}
		}
	}
	return ""
}
