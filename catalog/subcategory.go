package catalog

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// subCategoryMaxDepth bounds the outward walk from a control when looking
// for the sub-section heading it belongs to.
const subCategoryMaxDepth = 8

// hoodVocabulary, folded, reclassifies an exterior-color option to hood
// when its resolved sub-category names the roof rather than the body.
var hoodVocabulary = []string{"capote", "toit", "hard-top", "hard top", "soft top"}

// ResolveSubCategory walks outward from the control: at each ancestor
// level it inspects the preceding siblings, nearest first, for the
// closest secondary heading. The first heading found wins; "" when none
// is found within the depth bound. The walk never leaves the boundary
// subtree, so a heading from the previous major section can never bleed
// in.
func ResolveSubCategory(node, boundary *html.Node) string {
	if h := SubCategoryHeadingNode(node, boundary); h != nil {
		return dom.Text(h)
	}
	return ""
}

// SubCategoryHeadingNode returns the secondary heading node governing the
// control's sub-section, or nil. The price resolver reuses it for the
// interior-color sub-section aggregate. boundary is the section container
// the walk must stay inside; nil means unbounded.
func SubCategoryHeadingNode(node, boundary *html.Node) *html.Node {
	cur := node
	for depth := 0; depth < subCategoryMaxDepth; depth++ {
		if cur == boundary {
			// Scanning the boundary's own siblings would read into the
			// previous major section.
			return nil
		}
		for _, sib := range dom.PrecedingSiblings(cur) {
			if h := nearestHeadingIn(sib); h != nil {
				return h
			}
		}
		cur = cur.Parent
		if cur == nil || cur.Type != html.ElementNode {
			return nil
		}
	}
	return nil
}

// nearestHeadingIn returns the secondary heading closest to the end of
// sib's subtree (i.e. nearest to the control in document order), or nil
// when the sibling holds none. The sibling may itself be the heading.
func nearestHeadingIn(sib *html.Node) *html.Node {
	if dom.SecondaryHeading.Match(sib) {
		return sib
	}
	all := dom.SecondaryHeading.MatchAll(sib)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// isHoodSubCategory reports whether a sub-category resolved inside an
// exterior-color section actually names the roof, which retypes only that
// option to hood while the section stays color_ext.
func isHoodSubCategory(subCategory string) bool {
	folded := models.Fold(subCategory)
	if folded == "" {
		return false
	}
	for _, kw := range hoodVocabulary {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
