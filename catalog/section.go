package catalog

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// Section is one major block of the expanded configurator page: a
// top-level heading plus the container it heads. The container is the
// heading's parent element, which on the configurator wraps the whole
// block of controls the heading announces.
type Section struct {
	Heading   string
	Type      models.OptionType
	Container *html.Node
}

// sectionRule maps heading vocabulary to a base option type. Rules are
// evaluated in order against the folded heading text; the first rule with
// a matching keyword wins.
type sectionRule struct {
	kind     models.OptionType
	skip     bool
	keywords []string
}

// Keywords are pre-folded (lowercase, no diacritics). The summary rule
// comes first: summary sections re-list items already covered elsewhere
// and must be skipped before any type keyword can match. Hood vocabulary
// is tested before exterior colors because hood sections also mention
// "teinte".
var sectionRules = []sectionRule{
	{skip: true, keywords: []string{"resume", "recapitulatif", "votre configuration", "summary", "overview", "apercu"}},
	{kind: models.TypeHood, keywords: []string{"capote", "hard-top", "hard top", "soft top", "toit escamotable"}},
	{kind: models.TypeColorExt, keywords: []string{"teinte exterieure", "teintes exterieures", "couleur exterieure", "couleurs exterieures", "peinture", "exterior colour", "exterior color"}},
	{kind: models.TypeColorInt, keywords: []string{"teinte interieure", "teintes interieures", "couleur interieure", "couleurs interieures", "interieur", "interior"}},
	{kind: models.TypeWheel, keywords: []string{"jante", "roue", "wheel"}},
	{kind: models.TypeSeat, keywords: []string{"siege", "seat"}},
	{kind: models.TypePack, keywords: []string{"pack"}},
}

// classifyHeading assigns the base option type for a major section
// heading. skip is true for summary vocabulary.
func classifyHeading(heading string) (kind models.OptionType, skip bool) {
	folded := models.Fold(heading)
	for _, rule := range sectionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.kind, rule.skip
			}
		}
	}
	return models.TypeOption, false
}

// Sections walks the snapshot's top-level headings and returns the major
// sections in document order, dropping summary sections.
func Sections(snap *dom.Snapshot) []Section {
	var out []Section
	for _, h := range snap.QueryAll(dom.PrimaryHeading) {
		heading := dom.Text(h)
		if heading == "" || h.Parent == nil {
			continue
		}
		kind, skip := classifyHeading(heading)
		if skip {
			continue
		}
		// A heading whose parent wraps other primary headings is not a
		// section header but a page-level title (the model name h1 at the
		// top of the configurator); its container would swallow every
		// control on the page.
		if dom.CountMatching(h.Parent, dom.PrimaryHeading) > 1 {
			continue
		}
		out = append(out, Section{
			Heading:   heading,
			Type:      kind,
			Container: h.Parent,
		})
	}
	return out
}
