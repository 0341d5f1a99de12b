package calculator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"leadscore/pkg/apperr"
	"leadscore/pkg/logger"
	"leadscore/pkg/models"
	"leadscore/pkg/outreach"
	"leadscore/pkg/sheet"

	"github.com/schollz/progressbar/v3"
)

// Run scores and schedules every lead of in. It works on a copy: the
// returned table holds the derived columns, and in is left untouched. Any
// error aborts the whole batch, so callers either get a complete table or
// nothing to write.
func Run(ctx context.Context, in *sheet.Table, cfg models.Config, log *logger.Logger) (*sheet.Table, []models.Result, error) {
	if cfg.Rand == nil {
		return nil, nil, apperr.Config("run: random source is required")
	}
	if cfg.Today.IsZero() {
		return nil, nil, apperr.Config("run: reference day is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	started := time.Now()
	leads, err := ExtractFeatures(in, cfg.Columns)
	if err != nil {
		return nil, nil, err
	}
	x := FeatureMatrix(leads)
	log.Stage("extract", len(leads), started)

	started = time.Now()
	purchase, model, err := PurchaseScores(x, cfg.RecencyThreshold)
	if err != nil {
		return nil, nil, err
	}
	if model.SingleClass {
		log.Warn("purchase labels are all equal, scores are constant",
			slog.Float64("score", purchase[0]),
			slog.Int("recency_threshold", cfg.RecencyThreshold))
	} else if !model.Converged {
		log.Warn("purchase model stopped before convergence")
	}
	log.Stage("purchase_model", len(purchase), started,
		slog.Any("weights", model.Weights), slog.Float64("intercept", model.Intercept))

	started = time.Now()
	raw := make([]float64, len(leads))
	for i, l := range leads {
		raw[i] = l.HistoricalValue()
	}
	lifetime, err := NormalizeLifetimeValue(raw)
	if errors.Is(err, apperr.ErrDegenerateRange) {
		log.Warn("lifetime value range is degenerate, using zero for every lead", slog.Float64("value", raw[0]))
		lifetime, err = make([]float64, len(raw)), nil
	}
	if err != nil {
		return nil, nil, err
	}
	log.Stage("lifetime_value", len(lifetime), started)

	started = time.Now()
	sched := outreach.NewScheduler(cfg.Today, cfg.Rand, cfg.SwedishShare)
	bar := newBar(len(leads), cfg.Verbose)
	results := make([]models.Result, len(leads))
	tiers := make(map[models.Tier]int)
	for i, l := range leads {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		score := models.Score{
			PurchaseScore: purchase[i],
			LifetimeValue: lifetime[i],
			LeadScore:     LeadScore(purchase[i], lifetime[i]),
		}
		s, err := sched.Plan(score.LeadScore, l.TimeSinceLastPurchase)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		results[i] = models.Result{Score: score, Schedule: s}
		tiers[s.Tier]++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	log.Stage("schedule", len(results), started,
		slog.Int("top", tiers[models.TierTop]),
		slog.Int("hot", tiers[models.TierHot]),
		slog.Int("warm", tiers[models.TierWarm]),
		slog.Int("lukewarm", tiers[models.TierLukewarm]),
		slog.Int("cold", tiers[models.TierCold]))

	out := in.Clone()
	if err := ApplyResults(out, cfg.Columns.AveragePurchaseValue, results); err != nil {
		return nil, nil, err
	}
	return out, results, nil
}

func newBar(n int, verbose bool) *progressbar.ProgressBar {
	if verbose {
		return progressbar.Default(int64(n), "scheduling")
	}
	return progressbar.NewOptions(n, progressbar.OptionSetWriter(io.Discard))
}
