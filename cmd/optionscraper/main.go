package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/LouisZerri/porsche-options-sub000/config"
	"github.com/LouisZerri/porsche-options-sub000/runner"
	"github.com/LouisZerri/porsche-options-sub000/scraper"
	"github.com/LouisZerri/porsche-options-sub000/store"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load()
	cfg := config.Load()

	locale := flag.String("locale", "", "configurator locale (overrides POPT_LOCALE)")
	headless := flag.Bool("headless", cfg.Browser.Headless, "run the browser headless")
	debug := flag.Bool("debug", cfg.Runner.Debug, "verbose logging")
	dbPath := flag.String("db", cfg.Store.Path, "sqlite database path")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] MODEL_CODE [MODEL_CODE...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	codes := flag.Args()
	if len(codes) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *locale != "" {
		cfg.Runner.Locale = *locale
	}
	cfg.Browser.Headless = *headless
	cfg.Runner.Debug = *debug
	cfg.Store.Path = *dbPath
	if cfg.Runner.Debug {
		cfg.Log.Level = "debug"
	}

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("optionscraper starting",
		"codes", codes,
		"locale", cfg.Runner.Locale,
		"headless", cfg.Browser.Headless,
		"db", cfg.Store.Path,
	)

	// ── 3. Open the store ───────────────────────────────────────────
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// ── 4. Launch the browser session ───────────────────────────────
	session, err := scraper.NewSession(cfg.Browser)
	if err != nil {
		slog.Error("failed to launch browser", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	explorer := scraper.NewExplorer(session, cfg.Scraper, cfg.Runner)
	collector := scraper.NewTechDataCollector(cfg.Browser, cfg.Runner)
	run := runner.New(explorer, collector, st, cfg.Runner, cfg.Scraper.MaxTimeout)

	// ── 5. Run the batch, cancellable via Ctrl-C ────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports, err := run.RunBatch(ctx, codes)
	done := 0
	for _, rep := range reports {
		if rep != nil && rep.State == runner.StateDone {
			done++
		}
	}
	slog.Info("batch finished", "requested", len(codes), "completed", done)

	if err != nil && ctx.Err() == nil {
		slog.Error("batch aborted", "error", err)
		os.Exit(1)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
