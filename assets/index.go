package assets

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/LouisZerri/porsche-options-sub000/dom"
)

// filenamePatterns are the recognized asset filename conventions, each
// with one capture group holding the option code.
var filenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`studio_([0-9A-Za-z]{2,6})[._]`),
	regexp.MustCompile(`detail_M([0-9A-Za-z]{2,6})_`),
	regexp.MustCompile(`option[_-]([0-9A-Za-z]{2,6})[._]`),
	regexp.MustCompile(`/([0-9A-Za-z]{2,6})_(?:front|side|rear|studio)\.`),
}

// codePrefixes are the single-letter prefixes tried when a code is absent
// from the index as-is.
var codePrefixes = []string{"P", "C", "M", "Q", "X"}

// urlRe pulls URLs out of inline background-image styles.
var styleURLRe = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// neighborhoodDepth bounds the DOM-neighborhood search around a control
// before falling back to the whole document.
const neighborhoodDepth = 4

// Index is the page-wide code→URL map built once per snapshot by scanning
// every image and background asset for recognized filename conventions.
type Index struct {
	byCode map[string]string
	codes  []string
	urls   []string
}

// BuildIndex scans the snapshot's image-bearing elements.
func BuildIndex(snap *dom.Snapshot) *Index {
	idx := &Index{byCode: make(map[string]string)}
	for _, n := range snap.QueryAll(dom.PageImage) {
		for _, u := range assetURLs(n) {
			idx.add(u)
		}
	}
	return idx
}

func (idx *Index) add(u string) {
	if u == "" {
		return
	}
	idx.urls = append(idx.urls, u)
	for _, re := range filenamePatterns {
		if m := re.FindStringSubmatch(u); m != nil {
			code := strings.ToUpper(m[1])
			if _, dup := idx.byCode[code]; !dup {
				idx.byCode[code] = u
				idx.codes = append(idx.codes, code)
			}
		}
	}
}

// Lookup resolves a code against the index: exact key, then the code with
// single-letter prefixes added or stripped, then substring containment
// between the code and the indexed keys. "" when nothing matches.
func (idx *Index) Lookup(code string) string {
	code = strings.ToUpper(code)
	if u, ok := idx.byCode[code]; ok {
		return u
	}
	for _, p := range codePrefixes {
		if u, ok := idx.byCode[p+code]; ok {
			return u
		}
		if strings.HasPrefix(code, p) && len(code) > 2 {
			if u, ok := idx.byCode[code[1:]]; ok {
				return u
			}
		}
	}
	// Keys are tried in document appearance order so the same page
	// always resolves to the same URL.
	for _, key := range idx.codes {
		if strings.Contains(key, code) || strings.Contains(code, key) {
			return idx.byCode[key]
		}
	}
	return ""
}

// NeighborhoodURL searches a bounded DOM neighborhood around the option's
// control for any image URL literally containing the code.
func NeighborhoodURL(node *html.Node, code string) string {
	lower := strings.ToLower(code)
	cur := node
	for depth := 0; depth < neighborhoodDepth; depth++ {
		cur = cur.Parent
		if cur == nil || cur.Type != html.ElementNode {
			return ""
		}
		for _, n := range dom.PageImage.MatchAll(cur) {
			for _, u := range assetURLs(n) {
				if strings.Contains(strings.ToLower(u), lower) {
					return u
				}
			}
		}
	}
	return ""
}

// DocumentURL is the final fallback: any indexed URL literally containing
// the code.
func (idx *Index) DocumentURL(code string) string {
	lower := strings.ToLower(code)
	for _, u := range idx.urls {
		if strings.Contains(strings.ToLower(u), lower) {
			return u
		}
	}
	return ""
}

// assetURLs extracts candidate URLs from one image-bearing element.
func assetURLs(n *html.Node) []string {
	var out []string
	if src := dom.Attr(n, "src"); src != "" {
		out = append(out, src)
	}
	if srcset := dom.Attr(n, "srcset"); srcset != "" {
		for _, part := range strings.Split(srcset, ",") {
			fields := strings.Fields(strings.TrimSpace(part))
			if len(fields) > 0 {
				out = append(out, fields[0])
			}
		}
	}
	if style := dom.Attr(n, "style"); style != "" {
		for _, m := range styleURLRe.FindAllStringSubmatch(style, -1) {
			out = append(out, m[1])
		}
	}
	return out
}
