package pricing

import (
	"context"
	"log/slog"

	"github.com/LouisZerri/porsche-options-sub000/catalog"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// DeltaMeasurer resolves a price by toggling an option on the live page
// and measuring the change in the displayed running total. The
// implementation must restore the original selection in the option's
// control group before returning, because exactly one option per group is
// active at a time and later measurements must see an undisturbed page.
//
// A nil delta with a nil error means "no delta observed"; the price stays
// unknown and the run continues.
type DeltaMeasurer interface {
	MeasurePriceDelta(ctx context.Context, code string) (*float64, error)
}

// deltaEligible lists the option types the interactive fallback may
// touch. Other types are left unresolved rather than clicked.
func deltaEligible(t models.OptionType) bool {
	return t == models.TypeColorInt || t == models.TypeSeat || t == models.TypeWheel
}

// ResolveResidual runs the click-delta fallback over every candidate the
// static strategies left unresolved. It is the last strategy, run only
// after all static candidates are classified. Measurement failures and
// negative deltas leave the price unknown; they are never a run failure.
func ResolveResidual(ctx context.Context, cands []*catalog.Candidate, results map[string]Result, m DeltaMeasurer) {
	if m == nil {
		return
	}
	for _, c := range cands {
		if results[c.Code].Resolved || !deltaEligible(c.Type) {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		delta, err := m.MeasurePriceDelta(ctx, c.Code)
		if err != nil {
			slog.Warn("click-delta measurement failed",
				"code", c.Code, "error", err)
			continue
		}
		if delta == nil || *delta < 0 {
			continue
		}
		results[c.Code] = Result{
			Price:    delta,
			Standard: *delta == 0,
			Resolved: true,
			Strategy: StrategyClickDelta,
		}
	}
}
