package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"

	"github.com/LouisZerri/porsche-options-sub000/pricing"
)

// deltaMeasurer implements pricing.DeltaMeasurer against the live page:
// it toggles an option's control, reads the change in the displayed
// total, then restores the original selection in the control group so
// later measurements see an undisturbed page.
type deltaMeasurer struct {
	page   *rod.Page
	settle time.Duration
}

// DeltaMeasurer exposes the click-delta fallback for the current page.
func (e *Explorer) DeltaMeasurer() pricing.DeltaMeasurer {
	return &deltaMeasurer{page: e.page, settle: e.cfg.DeltaSettle}
}

func (m *deltaMeasurer) MeasurePriceDelta(ctx context.Context, code string) (*float64, error) {
	p := m.page.Context(ctx)

	el, err := p.Sleeper(rod.NotFoundSleeper).Element(fmt.Sprintf(`input[value=%q]`, code))
	if err != nil {
		return nil, fmt.Errorf("control for %s not found: %w", code, err)
	}

	// Remember the currently active option of this control group; exactly
	// one option per group is active at a time and it must be re-selected
	// before the next measurement.
	group, err := el.Attribute("name")
	if err != nil || group == nil {
		return nil, fmt.Errorf("control for %s has no group: %v", code, err)
	}
	prev := evalStringOrEmpty(p, fmt.Sprintf(`() => {
		const el = document.querySelector('input[name=%q]:checked');
		return el ? el.value : '';
	}`, *group))

	if err := el.ScrollIntoView(); err != nil {
		return nil, fmt.Errorf("scroll to %s: %w", code, err)
	}

	before, ok := totalPrice(p)
	if !ok {
		return nil, nil // no total displayed, no delta observable
	}

	if _, err := el.Eval(`() => this.click()`); err != nil {
		return nil, fmt.Errorf("activate %s: %w", code, err)
	}
	if err := sleep(ctx, m.settle); err != nil {
		return nil, err
	}

	after, ok := totalPrice(p)
	m.restore(ctx, p, *group, prev, code)
	if !ok {
		return nil, nil
	}

	delta := after - before
	slog.Debug("click-delta measured", "code", code, "before", before, "after", after)
	return &delta, nil
}

// restore returns the control group to its pre-measurement state:
// the previously active option is re-clicked, or the measured control
// is clicked again to clear it when the group had no selection.
func (m *deltaMeasurer) restore(ctx context.Context, p *rod.Page, group, prev, code string) {
	target, ok := restoreValue(prev, code)
	if !ok {
		return
	}
	js := fmt.Sprintf(`() => {
		const el = document.querySelector('input[name=%q][value=%q]');
		if (el) el.click();
	}`, group, target)
	if _, err := p.Eval(js); err != nil {
		slog.Warn("failed to restore selection", "group", group, "value", target, "error", err)
		return
	}
	_ = sleep(ctx, m.settle)
}

// restoreValue picks which option of the group to click after a
// measurement. An empty prev means nothing was selected before, so the
// measured control itself is toggled back off. No click is needed when
// the measured option was already the active one.
func restoreValue(prev, code string) (string, bool) {
	switch prev {
	case code:
		return "", false
	case "":
		return code, true
	}
	return prev, true
}
