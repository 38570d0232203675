package catalog

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

var labelMatcher = cascadia.MustCompile("label[for]")

// Candidate is one option surfaced from the page before price and image
// resolution.
type Candidate struct {
	Code        string
	Name        string
	Type        models.OptionType
	Category    string
	SubCategory string
	Exclusive   bool

	// Node is the control or anchor the candidate was extracted from;
	// the price resolver climbs from here.
	Node *html.Node

	// Section is the major-section container holding Node. Outward
	// walks (sub-category, sub-section aggregate) stay inside it.
	Section *html.Node

	// FromAnchor records the extraction source (anchor vs control).
	FromAnchor bool

	DisplayOrder int
}

// SeenCodes is the per-run identity guard: the same code reached through
// two different DOM sources (control and anchor) must be classified only
// once, first occurrence winning. It is an explicit accumulator passed
// into every extraction call, never ambient state.
type SeenCodes struct {
	set map[string]struct{}
}

// NewSeenCodes returns an empty accumulator.
func NewSeenCodes() *SeenCodes {
	return &SeenCodes{set: make(map[string]struct{})}
}

// Add registers code and reports whether it was new.
func (s *SeenCodes) Add(code string) bool {
	if _, ok := s.set[code]; ok {
		return false
	}
	s.set[code] = struct{}{}
	return true
}

// Len returns the number of distinct codes seen.
func (s *SeenCodes) Len() int { return len(s.set) }

// codeRe validates an option code: short uppercase alphanumeric, as used
// by the configurator ("0Q", "CE1", "XSC").
var codeRe = regexp.MustCompile(`^[0-9A-Z]{2,6}$`)

// anchorPathRe matches the path-segment URL shape
// ("/fr-FR/option/CE1", "/options/XSC/details").
var anchorPathRe = regexp.MustCompile(`/options?/([0-9A-Za-z]{2,6})(?:/|$)`)

// anchorQueryKeys are the recognized query-parameter names of the
// query-style URL shape ("?option=CE1").
var anchorQueryKeys = []string{"option", "optioncode", "code"}

// controlCandidates extracts candidates from the selectable controls of
// one section. The control's value attribute is the code; its accessible
// label is the candidate name.
func controlCandidates(snap *dom.Snapshot, sec Section, seen *SeenCodes) []*Candidate {
	var out []*Candidate
	for _, ctl := range dom.Control.MatchAll(sec.Container) {
		code := strings.ToUpper(strings.TrimSpace(dom.Attr(ctl, "value")))
		if !codeRe.MatchString(code) || !seen.Add(code) {
			continue
		}
		out = append(out, &Candidate{
			Code:     code,
			Name:     accessibleLabel(snap, ctl),
			Type:     sec.Type,
			Category: sec.Heading,
			Node:     ctl,
			Section:  sec.Container,
		})
	}
	return out
}

// anchorCandidates extracts candidates from anchors referencing a code
// through either recognized URL shape.
func anchorCandidates(sec Section, seen *SeenCodes) []*Candidate {
	var out []*Candidate
	for _, a := range dom.OptionAnchor.MatchAll(sec.Container) {
		code := CodeFromHref(dom.Attr(a, "href"))
		if code == "" || !seen.Add(code) {
			continue
		}
		out = append(out, &Candidate{
			Code:       code,
			Name:       CleanName(dom.Text(a)),
			Type:       sec.Type,
			Category:   sec.Heading,
			Node:       a,
			Section:    sec.Container,
			FromAnchor: true,
		})
	}
	return out
}

// CodeFromHref extracts an option code from an anchor href, trying the
// query-parameter shape first, then the path-segment shape. Returns ""
// when neither shape yields a valid code.
func CodeFromHref(href string) string {
	if href == "" {
		return ""
	}
	if u, err := url.Parse(href); err == nil {
		q := u.Query()
		for _, key := range anchorQueryKeys {
			for qk, vals := range q {
				if strings.EqualFold(qk, key) && len(vals) > 0 {
					code := strings.ToUpper(strings.TrimSpace(vals[0]))
					if codeRe.MatchString(code) {
						return code
					}
				}
			}
		}
	}
	if m := anchorPathRe.FindStringSubmatch(href); m != nil {
		code := strings.ToUpper(m[1])
		if codeRe.MatchString(code) {
			return code
		}
	}
	return ""
}

// accessibleLabel resolves a control's name the way assistive tech would:
// aria-label, then a label element bound via for=id, then an enclosing
// label, then the title attribute. Falls back to the code when the
// control is unlabeled.
func accessibleLabel(snap *dom.Snapshot, ctl *html.Node) string {
	if v := strings.TrimSpace(dom.Attr(ctl, "aria-label")); v != "" {
		return CleanName(v)
	}
	if id := dom.Attr(ctl, "id"); id != "" {
		var text string
		for _, lbl := range snap.QueryAll(labelMatcher) {
			if dom.Attr(lbl, "for") == id {
				text = dom.Text(lbl)
				break
			}
		}
		if text != "" {
			return CleanName(text)
		}
	}
	if lbl := dom.NearestAncestorMatching(ctl, 4, func(n *html.Node) bool {
		return dom.IsElement(n, "label")
	}); lbl != nil {
		if text := dom.Text(lbl); text != "" {
			return CleanName(text)
		}
	}
	if v := strings.TrimSpace(dom.Attr(ctl, "title")); v != "" {
		return CleanName(v)
	}
	return strings.ToUpper(strings.TrimSpace(dom.Attr(ctl, "value")))
}
