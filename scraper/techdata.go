package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/LouisZerri/porsche-options-sub000/cache"
	"github.com/LouisZerri/porsche-options-sub000/config"
)

// TechDataCollector harvests the two auxiliary specification sub-pages of
// a model: the technical-data table and the standard-equipment name list.
// The equipment names feed the price resolver's standard-equipment
// strategy.
type TechDataCollector struct {
	fetcher *httpFetcher
	pages   *cache.Cache
	baseURL string
	locale  string
}

// NewTechDataCollector builds a collector sharing the run configuration.
func NewTechDataCollector(browser config.BrowserConfig, run config.RunnerConfig) *TechDataCollector {
	return &TechDataCollector{
		fetcher: newHTTPFetcher(browser.Proxy, browser.UserAgent),
		pages:   cache.New(64, 30*time.Minute),
		baseURL: run.BaseURL,
		locale:  run.Locale,
	}
}

// Collect fetches and parses both sub-pages. Failures on either page
// degrade to empty results with a warning: missing technical data never
// aborts an extraction run.
func (c *TechDataCollector) Collect(ctx context.Context, code string) (map[string]string, []string) {
	techData := map[string]string{}
	if body, err := c.page(ctx, fmt.Sprintf("%s/%s/specs/%s/technical-data", c.baseURL, c.locale, code)); err != nil {
		slog.Warn("technical data fetch failed", "code", code, "error", err)
	} else {
		techData = parseTechnicalData(body)
	}

	var equipment []string
	if body, err := c.page(ctx, fmt.Sprintf("%s/%s/specs/%s/standard-equipment", c.baseURL, c.locale, code)); err != nil {
		slog.Warn("standard equipment fetch failed", "code", code, "error", err)
	} else {
		equipment = parseStandardEquipment(body)
	}

	slog.Info("auxiliary pages collected",
		"code", code, "specs", len(techData), "equipment", len(equipment))
	return techData, equipment
}

// LocalizedNames fetches the secondary-locale configurator names, keyed
// by option code, when the run asked for them. Best-effort: an empty map
// on any failure.
func (c *TechDataCollector) LocalizedNames(ctx context.Context, code, locale string) map[string]string {
	if locale == "" {
		return nil
	}
	body, err := c.page(ctx, fmt.Sprintf("%s/%s/specs/%s/options", c.baseURL, locale, code))
	if err != nil {
		slog.Warn("secondary locale fetch failed", "code", code, "locale", locale, "error", err)
		return nil
	}
	return parseOptionNames(body)
}

func (c *TechDataCollector) page(ctx context.Context, url string) ([]byte, error) {
	if body, ok := c.pages.Get(url); ok {
		return body, nil
	}
	body, err := c.fetcher.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	c.pages.Set(url, body)
	return body, nil
}

// parseTechnicalData extracts key/value specs from table rows and
// definition lists.
func parseTechnicalData(body []byte) map[string]string {
	out := map[string]string{}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return out
	}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		key := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		if key != "" && value != "" {
			out[key] = value
		}
	})

	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		defs := dl.Find("dd")
		for i := 0; i < terms.Length() && i < defs.Length(); i++ {
			key := strings.TrimSpace(terms.Eq(i).Text())
			value := strings.TrimSpace(defs.Eq(i).Text())
			if key != "" && value != "" {
				out[key] = value
			}
		}
	})
	return out
}

// parseStandardEquipment extracts the ordered equipment name list.
func parseStandardEquipment(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		// Skip structural list items (navigation, nested containers).
		if li.Find("li").Length() > 0 {
			return
		}
		name := strings.Join(strings.Fields(li.Text()), " ")
		if name == "" || len(name) > 200 {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	})
	return out
}

// parseOptionNames extracts code/name pairs from the options listing of
// a secondary locale. Codes are carried in data-code attributes.
func parseOptionNames(body []byte) map[string]string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	out := map[string]string{}
	doc.Find("[data-code]").Each(func(_ int, s *goquery.Selection) {
		code, _ := s.Attr("data-code")
		code = strings.ToUpper(strings.TrimSpace(code))
		name := strings.Join(strings.Fields(s.Text()), " ")
		if code != "" && name != "" {
			out[code] = name
		}
	})
	return out
}
