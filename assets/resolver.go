package assets

import (
	"github.com/LouisZerri/porsche-options-sub000/catalog"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// Resolve returns the ImageRef for one candidate: a synthetic swatch for
// interior colors and hoods, otherwise a URL resolved through the
// page-wide index with its ordered fallbacks. "" when nothing matched.
func Resolve(c *catalog.Candidate, idx *Index) string {
	switch c.Type {
	case models.TypeColorInt:
		return SwatchRef(Swatch(c.Name))
	case models.TypeHood:
		return SwatchRef(HoodSwatch(c.Name))
	}

	if u := idx.Lookup(c.Code); u != "" {
		return u
	}
	if u := NeighborhoodURL(c.Node, c.Code); u != "" {
		return u
	}
	return idx.DocumentURL(c.Code)
}
