package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"

	"github.com/LouisZerri/porsche-options-sub000/config"
	"github.com/LouisZerri/porsche-options-sub000/models"
)

// Explorer prepares one model's configurator page: navigation with URL
// fallback, consent dismissal and full section expansion. It owns the
// single live page of the current run.
type Explorer struct {
	session *Session
	cfg     config.ScraperConfig
	run     config.RunnerConfig
	page    *rod.Page

	// year the page was resolved for; 0 when the yearless URL won.
	year int
}

// NewExplorer builds an explorer over a session.
func NewExplorer(session *Session, cfg config.ScraperConfig, run config.RunnerConfig) *Explorer {
	return &Explorer{session: session, cfg: cfg, run: run}
}

// modelURLs builds the ordered navigation list: year-qualified variants
// first, then the yearless fallback.
func modelURLs(baseURL, locale, code string, years []int) []string {
	var out []string
	for _, y := range years {
		out = append(out, fmt.Sprintf("%s/%s/model/%s/%d", baseURL, locale, code, y))
	}
	out = append(out, fmt.Sprintf("%s/%s/model/%s", baseURL, locale, code))
	return out
}

// isErrorPage recognizes the configurator's not-found surfaces: a 404
// redirect target or an error page title.
func isErrorPage(finalURL, title string) bool {
	lowerURL := strings.ToLower(finalURL)
	for _, marker := range []string{"/404", "/error", "page-not-found", "introuvable"} {
		if strings.Contains(lowerURL, marker) {
			return true
		}
	}
	lowerTitle := strings.ToLower(title)
	return strings.Contains(lowerTitle, "404") || strings.Contains(lowerTitle, "introuvable") ||
		strings.Contains(lowerTitle, "not found")
}

// LoadModelPage tries the ordered URL list and accepts the first
// response with HTTP 200 whose resolved URL is not an error page. When
// all attempts fail the model is reported not found, which is non-fatal
// for the batch. A best-effort consent dismissal runs after the first
// successful navigation.
func (e *Explorer) LoadModelPage(ctx context.Context, code string) error {
	if e.page == nil {
		page, err := e.session.NewPage()
		if err != nil {
			return err
		}
		e.page = page
	}

	urls := modelURLs(e.run.BaseURL, e.run.Locale, code, e.run.Years)
	for i, u := range urls {
		navCtx, cancel := context.WithTimeout(ctx, e.cfg.NavigationTimeout)
		p := e.page.Context(navCtx)

		if err := p.Navigate(u); err != nil {
			cancel()
			slog.Debug("navigation attempt failed", "url", u, "error", err)
			continue
		}
		if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
			slog.Debug("DOM did not stabilize, proceeding", "url", u, "error", err)
		}

		status := navigationStatus(p)
		finalURL := evalStringOrEmpty(p, `() => window.location.href`)
		title := evalStringOrEmpty(p, `() => document.title`)
		cancel()

		if (status == 200 || status == 0) && !isErrorPage(finalURL, title) {
			if i < len(e.run.Years) {
				e.year = e.run.Years[i]
			} else {
				e.year = 0
			}
			slog.Info("model page loaded", "code", code, "url", finalURL, "status", status)
			e.dismissConsent(ctx)
			return nil
		}
		slog.Debug("URL variant rejected", "url", u, "status", status, "finalURL", finalURL)
	}

	return models.NewExtractError(models.ErrCodeModelNotFound,
		fmt.Sprintf("no page variant resolved for model %s", code), nil)
}

// Year returns the model year of the resolved page, 0 for yearless.
func (e *Explorer) Year() int { return e.year }

// consentSelectors are the known accept buttons of the consent overlay.
var consentSelectors = []string{
	"#onetrust-accept-btn-handler",
	`[data-testid="uc-accept-all-button"]`,
	`button[id*="accept"]`,
	`button[class*="consent"]`,
}

// dismissConsent clicks through the cookie overlay best-effort, bounded
// by the consent timeout, and continues regardless of outcome.
func (e *Explorer) dismissConsent(ctx context.Context) {
	consentCtx, cancel := context.WithTimeout(ctx, e.cfg.ConsentTimeout)
	defer cancel()
	p := e.page.Context(consentCtx)

	for _, sel := range consentSelectors {
		el, err := p.Sleeper(rod.NotFoundSleeper).Element(sel)
		if err != nil || el == nil {
			continue
		}
		if _, err := el.Eval(`() => this.click()`); err == nil {
			slog.Debug("consent overlay dismissed", "selector", sel)
			return
		}
	}
}

// asyncSectionKeywords name the two top-level sections whose content
// loads asynchronously on first expansion (accessories, special
// delivery). They are expanded first with a longer settle delay and the
// generic pass must not re-toggle them.
var asyncSectionKeywords = []string{"accessoire", "livraison speciale", "special delivery"}

// ExpandAllSections triggers lazy rendering with repeated fixed-step
// scroll passes, then synchronously clicks every section header and every
// collapsed toggle. The two async sections are handled first and skipped
// by the generic pass so they are not re-collapsed.
func (e *Explorer) ExpandAllSections(ctx context.Context) error {
	p := e.page.Context(ctx)

	// (a) scroll passes to trigger lazy rendering
	for pass := 0; pass < e.cfg.ScrollPasses; pass++ {
		res, err := p.Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return models.NewExtractError(models.ErrCodeExtraction, "read page height", err)
		}
		height := res.Value.Int()
		for y := 0; y <= height; y += e.cfg.ScrollStep {
			if _, err := p.Eval(`(y) => window.scrollTo(0, y)`, y); err != nil {
				return models.NewExtractError(models.ErrCodeExtraction, "scroll step", err)
			}
			if err := sleep(ctx, e.cfg.SettleDelay); err != nil {
				return err
			}
		}
		if _, err := p.Eval(`() => window.scrollTo(0, 0)`); err != nil {
			return models.NewExtractError(models.ErrCodeExtraction, "scroll reset", err)
		}
	}

	// (b) async sections first, with the longer settle delay
	if _, err := p.Eval(expandSectionsJS, asyncSectionKeywords, []string{}); err != nil {
		return models.NewExtractError(models.ErrCodeExtraction, "expand async sections", err)
	}
	if err := sleep(ctx, e.cfg.AsyncSectionDelay); err != nil {
		return err
	}

	// (c) generic pass over the remaining headers and collapsed toggles
	res, err := p.Eval(expandSectionsJS, []string{}, asyncSectionKeywords)
	if err != nil {
		return models.NewExtractError(models.ErrCodeExtraction, "expand sections", err)
	}
	slog.Debug("sections expanded", "clicked", res.Value.Int())
	return sleep(ctx, e.cfg.SettleDelay)
}

// expandSectionsJS clicks section headers and collapsed toggles in one
// synchronous sweep. With only(=keywords) set, it touches only matching
// headers; with skip set, matching headers are treated as resolved
// elsewhere and left alone.
const expandSectionsJS = `(only, skip) => {
	const norm = t => (t || '').normalize('NFD').replace(/[̀-ͯ]/g, '').toLowerCase();
	const matches = (text, kws) => kws.some(k => text.includes(k));
	let clicked = 0;

	for (const h of document.querySelectorAll('h1, h2')) {
		const text = norm(h.textContent);
		if (only.length > 0 && !matches(text, only)) continue;
		if (skip.length > 0 && matches(text, skip)) continue;

		const btn = h.closest('button') ||
			(h.parentElement && h.parentElement.querySelector('button[aria-expanded]'));
		if (btn) {
			if (btn.getAttribute('aria-expanded') === 'false') { btn.click(); clicked++; }
		} else if (only.length > 0) {
			h.click(); clicked++;
		}
	}

	if (only.length === 0) {
		for (const t of document.querySelectorAll('[aria-expanded="false"]')) {
			const text = norm(t.textContent);
			if (matches(text, skip)) continue;
			t.click(); clicked++;
		}
	}
	return clicked;
}`

// Snapshot extracts the rendered HTML of the expanded page.
func (e *Explorer) Snapshot(ctx context.Context) (string, error) {
	html, err := e.page.Context(ctx).HTML()
	if err != nil {
		return "", models.NewExtractError(models.ErrCodeExtraction, "extract page HTML", err)
	}
	return html, nil
}

// ModelInfo reads the resolved model's display name, family and base
// price from the loaded page. The family is the leading token of the
// name ("718 Cayman" belongs to family "718").
func (e *Explorer) ModelInfo(ctx context.Context) (name, family string, basePrice float64) {
	p := e.page.Context(ctx)
	info := evalJSON(p, `() => {
		const h1 = document.querySelector('h1');
		return { name: h1 ? h1.textContent.trim() : '' };
	}`)
	name = strings.TrimSpace(info.Get("name").Str())
	if parts := strings.Fields(name); len(parts) > 0 {
		family = parts[0]
	}
	if v, ok := totalPrice(p); ok {
		basePrice = v
	}
	return name, family, basePrice
}

// ClosePage releases the current page between models.
func (e *Explorer) ClosePage() {
	if e.page != nil {
		if err := e.page.Close(); err != nil {
			slog.Warn("page close failed", "error", err)
		}
		e.page = nil
	}
}

// totalPriceJS locates the configurator's displayed running total.
const totalPriceJS = `() => {
	const sels = ['[data-testid="total-price"]', '.total-price',
		'[class*="total-price"]', '[class*="totalPrice"]'];
	for (const s of sels) {
		const el = document.querySelector(s);
		if (el && el.textContent.includes('€')) return el.textContent;
	}
	for (const el of document.querySelectorAll('[class*="price"]')) {
		const t = el.textContent || '';
		if (/prix total/i.test(t) && t.includes('€')) return t;
	}
	return '';
}`

// totalPrice reads the displayed total. ok is false when the page shows
// no recognizable total, which downstream treats as "no delta
// observable", never as a failure.
func totalPrice(p *rod.Page) (float64, bool) {
	text := evalStringOrEmpty(p, totalPriceJS)
	if text == "" {
		return 0, false
	}
	return models.FindPrice(text)
}

// navigationStatus reads the HTTP status of the last navigation from the
// performance timeline, without CDP event listeners. 0 means unknown.
func navigationStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch (e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// evalStringOrEmpty evaluates a JS expression and returns the string
// result, swallowing any errors (optional metadata extraction).
func evalStringOrEmpty(p *rod.Page, js string) string {
	res, err := p.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// evalJSON evaluates a JS expression returning an object and hands back
// the decoded value; an empty JSON value on any error.
func evalJSON(p *rod.Page, js string) gson.JSON {
	res, err := p.Eval(js)
	if err != nil {
		return gson.New(nil)
	}
	return res.Value
}
