// Package runner orchestrates one extraction run per model code: drive
// the page, classify the snapshot, resolve prices and images, persist.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/LouisZerri/porsche-options-sub000/assets"
	"github.com/LouisZerri/porsche-options-sub000/catalog"
	"github.com/LouisZerri/porsche-options-sub000/config"
	"github.com/LouisZerri/porsche-options-sub000/dom"
	"github.com/LouisZerri/porsche-options-sub000/models"
	"github.com/LouisZerri/porsche-options-sub000/pricing"
)

// Driver is the browser-facing half of a run. *scraper.Explorer is the
// production implementation; tests substitute a scripted one.
type Driver interface {
	LoadModelPage(ctx context.Context, code string) error
	ExpandAllSections(ctx context.Context) error
	Snapshot(ctx context.Context) (string, error)
	ModelInfo(ctx context.Context) (name, family string, basePrice float64)
	Year() int
	DeltaMeasurer() pricing.DeltaMeasurer
	ClosePage()
}

// AuxCollector fetches the auxiliary specification sub-pages of a model.
type AuxCollector interface {
	Collect(ctx context.Context, code string) (techData map[string]string, equipment []string)
	LocalizedNames(ctx context.Context, code, locale string) map[string]string
}

// Gateway is the persistence surface of a run, satisfied by *store.Store.
type Gateway interface {
	UpsertModel(m *models.Model) (int64, error)
	GetOrCreateCategory(name, parentName, subCategory string) (int64, error)
	UpsertOption(modelID int64, o *models.Option) error
	UpdateModelStats(modelID int64) error
}

// Runner walks one model code through the extraction state machine.
type Runner struct {
	driver  Driver
	aux     AuxCollector
	gateway Gateway
	cfg     config.RunnerConfig

	// maxTimeout bounds one model's whole run.
	maxTimeout time.Duration
}

// New builds a Runner. aux may be nil; technical data and the
// standard-equipment price strategy are then skipped.
func New(driver Driver, aux AuxCollector, gateway Gateway, cfg config.RunnerConfig, maxTimeout time.Duration) *Runner {
	return &Runner{
		driver:     driver,
		aux:        aux,
		gateway:    gateway,
		cfg:        cfg,
		maxTimeout: maxTimeout,
	}
}

// Report summarizes one finished run.
type Report struct {
	Code    string
	State   State
	Options int
	Err     error
}

// Run extracts one model. The returned error is nil for a completed run,
// a MODEL_NOT_FOUND ExtractError when the code resolves to no page, and
// the underlying ExtractError for any other failure. No partial results
// are persisted on failure: the store is only touched in the final phase.
func (r *Runner) Run(ctx context.Context, code string) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.maxTimeout)
	defer cancel()
	defer r.driver.ClosePage()

	rep := &Report{Code: code, State: StateIdle}

	r.transition(rep, StateNavigating, code)
	if err := r.driver.LoadModelPage(ctx, code); err != nil {
		return r.fail(rep, err)
	}
	name, family, basePrice := r.driver.ModelInfo(ctx)
	slog.Info("model resolved",
		"code", code, "name", name, "family", family,
		"base_price", basePrice, "year", r.driver.Year())

	r.transition(rep, StateCollectingTechnicalData, code)
	var techData map[string]string
	var equipment []string
	var localNames map[string]string
	if r.aux != nil {
		techData, equipment = r.aux.Collect(ctx, code)
		localNames = r.aux.LocalizedNames(ctx, code, r.cfg.SecondaryLocale)
	}

	r.transition(rep, StateExpandingSections, code)
	if err := r.driver.ExpandAllSections(ctx); err != nil {
		return r.fail(rep, err)
	}
	html, err := r.driver.Snapshot(ctx)
	if err != nil {
		return r.fail(rep, err)
	}
	if r.cfg.Debug {
		path := filepath.Join(os.TempDir(), "optionscraper-"+code+".html")
		if werr := os.WriteFile(path, []byte(html), 0o600); werr == nil {
			slog.Debug("raw snapshot kept", "path", path)
		}
	}
	snap, err := dom.Parse(html)
	if err != nil {
		return r.fail(rep, models.NewExtractError(models.ErrCodeExtraction, "snapshot parse", err))
	}

	r.transition(rep, StateScanningImages, code)
	images := assets.BuildIndex(snap)

	r.transition(rep, StateClassifyingOptions, code)
	seen := catalog.NewSeenCodes()
	cands := catalog.Classify(snap, seen)
	env := pricing.NewEnv(snap, equipment)
	results := make(map[string]pricing.Result, len(cands))
	for _, c := range cands {
		results[c.Code] = env.Resolve(c)
	}
	slog.Info("elements extracted count", "code", code, "count", len(cands))

	r.transition(rep, StateResolvingResidualPrices, code)
	pricing.ResolveResidual(ctx, cands, results, r.driver.DeltaMeasurer())

	r.transition(rep, StatePersisting, code)
	model := &models.Model{
		Code:              code,
		Name:              name,
		Family:            family,
		BasePrice:         basePrice,
		Year:              r.driver.Year(),
		TechnicalData:     techData,
		StandardEquipment: equipment,
	}
	n, err := r.persist(model, cands, results, images, localNames)
	if err != nil {
		return r.fail(rep, models.NewExtractError(models.ErrCodePersistence, "persist run", err))
	}
	rep.Options = n

	rep.State = StateDone
	slog.Info("run complete", "code", code, "options", n, "state", rep.State.String())
	return rep, nil
}

func (r *Runner) persist(model *models.Model, cands []*catalog.Candidate, results map[string]pricing.Result, images *assets.Index, localNames map[string]string) (int, error) {
	modelID, err := r.gateway.UpsertModel(model)
	if err != nil {
		return 0, err
	}

	persisted := 0
	for _, c := range cands {
		catID, err := r.gateway.GetOrCreateCategory(c.Category, string(c.Type), c.SubCategory)
		if err != nil {
			return persisted, fmt.Errorf("category %q: %w", c.Category, err)
		}

		res := results[c.Code]
		opt := &models.Option{
			ModelID:      modelID,
			CategoryID:   catID,
			Code:         c.Code,
			Name:         c.Name,
			LocalName:    localNames[c.Code],
			Price:        res.Price,
			IsStandard:   res.Standard,
			IsExclusive:  c.Exclusive,
			Type:         c.Type,
			SubCategory:  c.SubCategory,
			ImageRef:     assets.Resolve(c, images),
			DisplayOrder: c.DisplayOrder,
		}
		if err := r.gateway.UpsertOption(modelID, opt); err != nil {
			return persisted, fmt.Errorf("option %s: %w", c.Code, err)
		}
		persisted++
	}

	if err := r.gateway.UpdateModelStats(modelID); err != nil {
		return persisted, err
	}
	return persisted, nil
}

func (r *Runner) transition(rep *Report, next State, code string) {
	slog.Debug("state transition",
		"code", code, "from", rep.State.String(), "to", next.String())
	rep.State = next
}

func (r *Runner) fail(rep *Report, err error) (*Report, error) {
	rep.State = StateFailed
	rep.Err = err
	return rep, err
}

// RunBatch extracts every code in order, pacing runs with the configured
// inter-model delay. A model that is not found counts as zero options;
// transient page failures are logged and skipped. Persistence and
// browser-level failures abort the batch.
func (r *Runner) RunBatch(ctx context.Context, codes []string) ([]*Report, error) {
	limiter := rate.NewLimiter(rate.Every(r.cfg.ModelDelay), 1)

	reports := make([]*Report, 0, len(codes))
	for _, code := range codes {
		if err := limiter.Wait(ctx); err != nil {
			return reports, err
		}

		rep, err := r.Run(ctx, code)
		reports = append(reports, rep)
		if err == nil {
			continue
		}
		switch {
		case models.IsCode(err, models.ErrCodeModelNotFound):
			slog.Warn("model not found, continuing", "code", code)
		case models.IsCode(err, models.ErrCodePersistence),
			models.IsCode(err, models.ErrCodeBrowserCrash):
			return reports, err
		case ctx.Err() != nil:
			return reports, ctx.Err()
		default:
			slog.Error("model run failed, continuing", "code", code, "error", err)
		}
	}
	return reports, nil
}
