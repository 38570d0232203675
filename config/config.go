package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Browser BrowserConfig
	Scraper ScraperConfig
	Store   StoreConfig
	Runner  RunnerConfig
	Log     LogConfig
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// UserAgent is the fixed user agent sent by every page.
	UserAgent string

	// ViewportWidth/ViewportHeight pin the viewport so lazy-render
	// triggers behave identically across runs.
	ViewportWidth  int // default: 1920
	ViewportHeight int // default: 1080

	// AcceptLanguage is the browser locale header.
	AcceptLanguage string // default: "fr-FR,fr;q=0.9"

	// Proxy is an optional proxy URL for both browser and HTTP fetches.
	Proxy string
}

// ScraperConfig controls page preparation and interaction timing.
type ScraperConfig struct {
	// NavigationTimeout is the max time for a single page.Navigate.
	NavigationTimeout time.Duration // default: 25s

	// ConsentTimeout bounds the best-effort cookie-consent dismissal.
	ConsentTimeout time.Duration // default: 4s

	// SettleDelay is the pause after each scroll step or section click.
	SettleDelay time.Duration // default: 350ms

	// AsyncSectionDelay is the longer pause after expanding the two
	// sections whose content loads asynchronously on first expansion.
	AsyncSectionDelay time.Duration // default: 2500ms

	// ScrollStep is the fixed scroll increment in pixels.
	ScrollStep int // default: 900

	// ScrollPasses is the number of full-height scroll passes.
	ScrollPasses int // default: 2

	// DeltaSettle is the wait between activating an option and re-reading
	// the displayed total in the click-delta fallback.
	DeltaSettle time.Duration // default: 1500ms

	// MaxTimeout is the hard deadline for one model's whole extraction.
	MaxTimeout time.Duration // default: 8m
}

// StoreConfig controls the SQLite persistence gateway.
type StoreConfig struct {
	Path string // default: "data/options.db"
}

// RunnerConfig controls the per-model batch orchestration.
type RunnerConfig struct {
	// BaseURL is the configurator origin.
	BaseURL string // default: "https://configurateur.porsche.com"

	// Locale is the configurator locale path segment.
	Locale string // default: "fr-FR"

	// SecondaryLocale, when non-empty, triggers a second name fetch for
	// Option.LocalName.
	SecondaryLocale string

	// Years is the ordered list of model years tried when building
	// year-qualified page URLs, before the yearless fallback.
	Years []int // default: [current, current+1]

	// ModelDelay is the fixed pause between two models of a batch.
	ModelDelay time.Duration // default: 5s

	// Debug enables verbose logging and keeps raw page snapshots.
	Debug bool
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       envBoolOr("POPT_HEADLESS", true),
			NoSandbox:      envBoolOr("POPT_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("POPT_BROWSER_BIN"),
			UserAgent:      envOr("POPT_USER_AGENT", defaultUserAgent),
			ViewportWidth:  envIntOr("POPT_VIEWPORT_W", 1920),
			ViewportHeight: envIntOr("POPT_VIEWPORT_H", 1080),
			AcceptLanguage: envOr("POPT_ACCEPT_LANGUAGE", "fr-FR,fr;q=0.9"),
			Proxy:          os.Getenv("POPT_PROXY"),
		},
		Scraper: ScraperConfig{
			NavigationTimeout: envDurationOr("POPT_NAV_TIMEOUT", 25*time.Second),
			ConsentTimeout:    envDurationOr("POPT_CONSENT_TIMEOUT", 4*time.Second),
			SettleDelay:       envDurationOr("POPT_SETTLE_DELAY", 350*time.Millisecond),
			AsyncSectionDelay: envDurationOr("POPT_ASYNC_SECTION_DELAY", 2500*time.Millisecond),
			ScrollStep:        envIntOr("POPT_SCROLL_STEP", 900),
			ScrollPasses:      envIntOr("POPT_SCROLL_PASSES", 2),
			DeltaSettle:       envDurationOr("POPT_DELTA_SETTLE", 1500*time.Millisecond),
			MaxTimeout:        envDurationOr("POPT_MAX_TIMEOUT", 8*time.Minute),
		},
		Store: StoreConfig{
			Path: envOr("POPT_DB_PATH", "data/options.db"),
		},
		Runner: RunnerConfig{
			BaseURL:         envOr("POPT_BASE_URL", "https://configurateur.porsche.com"),
			Locale:          envOr("POPT_LOCALE", "fr-FR"),
			SecondaryLocale: os.Getenv("POPT_SECONDARY_LOCALE"),
			Years:           envIntSliceOr("POPT_YEARS", defaultYears()),
			ModelDelay:      envDurationOr("POPT_MODEL_DELAY", 5*time.Second),
			Debug:           envBoolOr("POPT_DEBUG", false),
		},
		Log: LogConfig{
			Level:  envOr("POPT_LOG_LEVEL", "info"),
			Format: envOr("POPT_LOG_FORMAT", "text"),
		},
	}
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

func defaultYears() []int {
	y := time.Now().Year()
	return []int{y, y + 1}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envIntSliceOr(key string, fallback []int) []int {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]int, 0, len(parts))
		for _, p := range parts {
			if i, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				result = append(result, i)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
