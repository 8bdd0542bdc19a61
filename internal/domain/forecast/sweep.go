// Package forecast runs the quarter sweep: one base record is predicted for
// every quarter of its year and summarised as a headline plus outlook.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/predictor"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/okian/growthdash/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Point is one quarter of a prediction series.
type Point struct {
	Quarter int     `json:"quarter"`
	Value   float64 `json:"value"`
}

// Forecast is the result of a sweep. Headline always equals Series[0].Value.
type Forecast struct {
	Record   feature.Record `json:"record"`
	Headline float64        `json:"headline"`
	Series   []Point        `json:"series"`
	Outlook  Outlook        `json:"outlook"`
}

// Sweep predicts base for quarters 1..4. Every variant differs from base in
// the quarter only. Any failing quarter fails the whole sweep.
func Sweep(ctx context.Context, base feature.Record, p predictor.Predictor, opts ...Option) (Forecast, error) {
	cfg := newSweepConfig(opts)
	start := time.Now()

	quarters := feature.Quarters()
	series := make([]Point, len(quarters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, q := range quarters {
		g.Go(func() error {
			v, err := predictQuarter(gctx, p, base.WithQuarter(q))
			if err != nil {
				return err
			}
			series[i] = Point{Quarter: q, Value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		cfg.logger.Warn(ctx, "sweep failed",
			logger.String("industry", base.Industry),
			logger.Int("year", base.Year),
			logger.Error(err))
		return Forecast{}, err
	}

	elapsed := time.Since(start)
	metrics.RecordSweepLatency(float64(elapsed.Microseconds()) / 1000)

	f := Forecast{
		Record:   base.WithQuarter(quarters[0]),
		Headline: series[0].Value,
		Series:   series,
	}
	f.Outlook = Classify(f.Headline, cfg.threshold, base)

	cfg.logger.Debug(ctx, "sweep completed",
		logger.String("industry", base.Industry),
		logger.Float64("headline", f.Headline),
		logger.String("outlook", f.Outlook.Level),
		logger.Duration("took", elapsed))
	return f, nil
}

func predictQuarter(ctx context.Context, p predictor.Predictor, row feature.Record) (float64, error) {
	start := time.Now()
	out, err := p.Predict(ctx, []feature.Record{row})
	ms := float64(time.Since(start).Microseconds()) / 1000

	switch {
	case err != nil:
		metrics.RecordPredictorCall("error", ms)
		if errors.Is(err, ErrPredictionFailed) {
			return 0, fmt.Errorf("quarter %d: %w", row.Quarter, err)
		}
		return 0, fmt.Errorf("%w: quarter %d: %w", ErrPredictionFailed, row.Quarter, err)
	case len(out) != 1:
		metrics.RecordPredictorCall("bad_output", ms)
		return 0, fmt.Errorf("%w: quarter %d: expected 1 output, got %d", ErrPredictionFailed, row.Quarter, len(out))
	case math.IsNaN(out[0]) || math.IsInf(out[0], 0):
		metrics.RecordPredictorCall("bad_output", ms)
		return 0, fmt.Errorf("%w: quarter %d: non-finite output %v", ErrPredictionFailed, row.Quarter, out[0])
	}
	metrics.RecordPredictorCall("success", ms)
	return out[0], nil
}
