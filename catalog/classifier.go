// Package catalog turns the expanded configurator page into candidate
// option records: per-section typing, control/anchor extraction merged
// through a seen-code accumulator, sub-category assignment and the
// page-wide exclusivity pass. Everything here is deterministic over a
// parsed snapshot; only the run-scoped display order varies between runs.
package catalog

import (
	"log/slog"

	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// Classify walks every major section of the snapshot and returns the
// candidate options in document order. The seen accumulator carries the
// first-occurrence-wins identity across the two extraction sources and
// across sections; callers create one per run.
func Classify(snap *dom.Snapshot, seen *SeenCodes) []*Candidate {
	exclusive := BuildExclusiveIndex(snap)

	var out []*Candidate
	order := 0
	for _, sec := range Sections(snap) {
		var batch []*Candidate
		batch = append(batch, controlCandidates(snap, sec, seen)...)
		batch = append(batch, anchorCandidates(sec, seen)...)

		for _, c := range batch {
			c.SubCategory = ResolveSubCategory(c.Node, c.Section)
			if c.Type == models.TypeColorExt && isHoodSubCategory(c.SubCategory) {
				c.Type = models.TypeHood
			}
			if badgeName, ok := exclusive[c.Code]; ok {
				c.Exclusive = true
				if badgeName != "" {
					c.Name = badgeName
				}
			}
			if c.Name == "" {
				c.Name = c.Code
			}
			c.DisplayOrder = order
			order++
			out = append(out, c)
		}

		slog.Debug("section classified",
			"heading", sec.Heading,
			"type", string(sec.Type),
			"candidates", len(batch),
		)
	}
	return out
}
