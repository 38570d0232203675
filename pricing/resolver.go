// Package pricing resolves each candidate option's price and standard
// flag through an ordered set of strategies. The first conclusive
// strategy wins and no step is re-evaluated afterwards. No strategy
// throws on ambiguous input: ambiguity resolves to "price unknown".
package pricing

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/LouisZerri/porsche-options-sub000/catalog"
	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// Strategy names the step that produced a result, for logging and tests.
type Strategy string

const (
	StrategyProximity    Strategy = "proximity"
	StrategyIncluded     Strategy = "included"
	StrategySubSection   Strategy = "subsection"
	StrategyStdEquipment Strategy = "standard-equipment"
	StrategyPreselected  Strategy = "preselected"
	StrategyClickDelta   Strategy = "click-delta"
)

// Result is one candidate's resolved price state. Resolved false with a
// nil Price means "payable, amount unknown".
type Result struct {
	Price    *float64
	Standard bool
	Resolved bool
	Strategy Strategy
}

const (
	// proximityMaxDepth is the fixed ancestor-climb bound of strategy 1.
	proximityMaxDepth = 5

	// includedMarkerDepth is how many of the first ancestor levels may
	// contribute an "included" marker to strategy 2.
	includedMarkerDepth = 3
)

// includedMarkers, folded, mean "included in base configuration".
var includedMarkers = []string{"de serie", "inclus", "included", "equipement de serie"}

// Env carries the per-run inputs of the static strategies: the parsed
// snapshot, the folded standard-equipment list, and the per-sub-section
// price cache of strategy 3.
type Env struct {
	Snapshot *dom.Snapshot

	foldedEquipment []string
	subPrice        map[*html.Node]*float64
}

// NewEnv builds a resolver environment from the snapshot and the
// standard-equipment names collected from the auxiliary pages.
func NewEnv(snap *dom.Snapshot, standardEquipment []string) *Env {
	folded := make([]string, 0, len(standardEquipment))
	for _, name := range standardEquipment {
		if f := models.Fold(name); f != "" {
			folded = append(folded, f)
		}
	}
	return &Env{
		Snapshot:        snap,
		foldedEquipment: folded,
		subPrice:        make(map[*html.Node]*float64),
	}
}

// Resolve runs the ordered static strategies (1-5) for one candidate.
// The interactive click-delta fallback is applied separately, after every
// static candidate has been classified (see ResolveResidual).
func (e *Env) Resolve(c *catalog.Candidate) Result {
	// 1. Bounded proximity search. The same climb records "included"
	// markers for strategy 2, which only apply when no number was seen.
	price, sawIncluded := e.proximitySearch(c)
	if price != nil {
		return Result{Price: price, Standard: *price == 0, Resolved: true, Strategy: StrategyProximity}
	}

	// 2. "Included in base configuration" marker.
	if sawIncluded {
		return Result{Price: models.Price(0), Standard: true, Resolved: true, Strategy: StrategyIncluded}
	}

	// 3. Sub-section aggregate, interior colors only.
	if c.Type == models.TypeColorInt {
		if p := e.subSectionPrice(c); p != nil {
			return Result{Price: p, Standard: *p == 0, Resolved: true, Strategy: StrategySubSection}
		}
	}

	// 4. Standard-equipment membership.
	if e.matchesStandardEquipment(c.Name) {
		return Result{Price: models.Price(0), Standard: true, Resolved: true, Strategy: StrategyStdEquipment}
	}

	// 5. Pre-selected or disabled control.
	if !c.FromAnchor && (dom.HasAttr(c.Node, "checked") || dom.HasAttr(c.Node, "disabled")) {
		return Result{Price: models.Price(0), Standard: true, Resolved: true, Strategy: StrategyPreselected}
	}

	return Result{}
}

// proximitySearch climbs ancestors from the control up to the fixed
// depth, aborting the climb at any level whose subtree contains more than
// one sibling control of the same kind, so a price belonging to a
// different option is never attributed. At each level, small leaf-like
// descendants are scanned for a currency-formatted number; the first
// number encountered wins.
func (e *Env) proximitySearch(c *catalog.Candidate) (price *float64, sawIncluded bool) {
	cur := c.Node
	for depth := 0; depth < proximityMaxDepth; depth++ {
		cur = cur.Parent
		if cur == nil || cur.Type != html.ElementNode {
			return nil, sawIncluded
		}
		if countSameKind(cur, c) > 1 {
			return nil, sawIncluded
		}

		var found *float64
		dom.Walk(cur, func(n *html.Node) bool {
			if n.Type != html.ElementNode || !dom.IsLeafLike(n) {
				return true
			}
			text := dom.Text(n)
			if text == "" {
				return true
			}
			if depth < includedMarkerDepth && hasIncludedMarker(text) {
				sawIncluded = true
			}
			if v, ok := models.FindPrice(text); ok {
				found = &v
				return false
			}
			return true
		})
		if found != nil {
			return found, sawIncluded
		}
		// Never climb past the section container: an ancestor shared
		// with other sections could carry another option's price.
		if cur == c.Section {
			break
		}
	}
	return nil, sawIncluded
}

// countSameKind counts, inside the ancestor subtree, controls of the same
// kind as the candidate's own source: same input type for controls,
// option-bearing anchors for anchor candidates.
func countSameKind(ancestor *html.Node, c *catalog.Candidate) int {
	if c.FromAnchor {
		count := 0
		for _, a := range dom.OptionAnchor.MatchAll(ancestor) {
			if catalog.CodeFromHref(dom.Attr(a, "href")) != "" {
				count++
			}
		}
		return count
	}
	kind := dom.Attr(c.Node, "type")
	count := 0
	for _, ctl := range dom.AnyControl.MatchAll(ancestor) {
		if dom.Attr(ctl, "type") == kind {
			count++
		}
	}
	return count
}

// subSectionPrice reads a price once from the enclosing sub-heading's own
// container and reuses it for every option sharing that sub-section.
func (e *Env) subSectionPrice(c *catalog.Candidate) *float64 {
	heading := catalog.SubCategoryHeadingNode(c.Node, c.Section)
	if heading == nil {
		return nil
	}
	if cached, ok := e.subPrice[heading]; ok {
		return cached
	}

	var price *float64
	if v, ok := models.FindPrice(dom.Text(heading)); ok {
		price = &v
	} else {
		// The heading block may render its price in a sibling tag.
		for _, sib := range append(dom.PrecedingSiblings(heading), followingSiblings(heading)...) {
			if !dom.IsLeafLike(sib) {
				continue
			}
			if v, ok := models.FindPrice(dom.Text(sib)); ok {
				price = &v
				break
			}
		}
	}
	e.subPrice[heading] = price
	return price
}

func followingSiblings(n *html.Node) []*html.Node {
	var out []*html.Node
	for cur := n.NextSibling; cur != nil; cur = cur.NextSibling {
		if cur.Type == html.ElementNode {
			out = append(out, cur)
		}
	}
	return out
}

// matchesStandardEquipment folds the option name and tests containment in
// either direction against the folded standard-equipment list.
func (e *Env) matchesStandardEquipment(name string) bool {
	folded := models.Fold(name)
	if folded == "" {
		return false
	}
	for _, equip := range e.foldedEquipment {
		if strings.Contains(equip, folded) || strings.Contains(folded, equip) {
			return true
		}
	}
	return false
}

func hasIncludedMarker(text string) bool {
	folded := models.Fold(text)
	for _, m := range includedMarkers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}
