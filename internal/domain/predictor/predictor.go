// Package predictor defines the growth-rate prediction contract and the
// pipeline implementation loaded from a fitted artifact.
package predictor

import (
	"context"

	"github.com/okian/growthdash/internal/domain/feature"
)

// Predictor maps a batch of feature records to one growth-rate estimate per
// record, in input order. Implementations must be safe for concurrent use
// and deterministic for a fixed input.
type Predictor interface {
	Predict(ctx context.Context, rows []feature.Record) ([]float64, error)
}

// Func adapts a plain function to Predictor.
type Func func(ctx context.Context, rows []feature.Record) ([]float64, error)

// Predict calls f.
func (f Func) Predict(ctx context.Context, rows []feature.Record) ([]float64, error) {
	return f(ctx, rows)
}

// Describer is implemented by predictors that can name the model behind them.
type Describer interface {
	Name() string
	Version() string
}
