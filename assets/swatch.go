// Package assets resolves each option's representative image: a
// synthetic color swatch for interior colors and hoods, or a page-level
// asset URL for everything else.
package assets

import (
	"strings"

	"github.com/LouisZerri/porsche-options-sub000/models"
)

// SwatchPrefix marks an ImageRef as a synthetic swatch rather than a URL.
const SwatchPrefix = "swatch:"

// paletteEntry maps a folded color-name substring to its hex value.
// Entries are scanned in the order the names appear inside the option's
// display name, so "Noir / Rouge Bordeaux" yields black then red.
type paletteEntry struct {
	name string
	hex  string
}

var palette = []paletteEntry{
	{"noir", "#0A0A0A"},
	{"blanc", "#F2F2F2"},
	{"craie", "#D6D7D2"},
	{"chalk", "#D6D7D2"},
	{"gris", "#7C7F82"},
	{"argent", "#C0C3C7"},
	{"rouge", "#A6121D"},
	{"bordeaux", "#5E1A24"},
	{"carmin", "#9B111E"},
	{"bleu", "#1F3A5F"},
	{"vert", "#1E4D2B"},
	{"jaune", "#E8C547"},
	{"orange", "#D97B29"},
	{"beige", "#D9C7A7"},
	{"marron", "#5B4636"},
	{"brun", "#5B4636"},
	{"cognac", "#8C5B3F"},
}

// hoodFallback is the generic swatch pair for hood names that match no
// pattern.
var hoodFallback = []string{"#0A0A0A", "#4A4D50"}

// Swatch parses the display name for known color-name substrings and
// returns 1-2 hex values, ordered by appearance in the name. Empty when
// no palette name occurs.
func Swatch(name string) []string {
	folded := models.Fold(name)
	type hit struct {
		pos int
		hex string
	}
	var hits []hit
	for _, p := range palette {
		if pos := strings.Index(folded, p.name); pos >= 0 {
			hits = append(hits, hit{pos, p.hex})
		}
	}
	// Insertion sort by position; palettes are tiny.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].pos < hits[j-1].pos; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	var out []string
	for _, h := range hits {
		if len(out) == 2 {
			break
		}
		if len(out) == 1 && out[0] == h.hex {
			continue
		}
		out = append(out, h.hex)
	}
	return out
}

// HoodSwatch applies the hood name-pattern rules ("black+grey",
// "black+red", ...) with the generic fallback pair.
func HoodSwatch(name string) []string {
	if sw := Swatch(name); len(sw) > 0 {
		return sw
	}
	return hoodFallback
}

// SwatchRef renders hex values as an ImageRef.
func SwatchRef(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return SwatchPrefix + strings.Join(values, ",")
}
