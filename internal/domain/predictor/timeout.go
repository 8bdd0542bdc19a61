package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/growthdash/internal/domain/feature"
)

type timeoutPredictor struct {
	next    Predictor
	timeout time.Duration
}

// WithTimeout bounds every Predict call on next. A call that outlives the
// timeout, or whose context is cancelled first, fails with
// ErrPredictionFailed. A non-positive timeout returns next unchanged.
func WithTimeout(next Predictor, timeout time.Duration) Predictor {
	if timeout <= 0 {
		return next
	}
	return &timeoutPredictor{next: next, timeout: timeout}
}

type predictResult struct {
	values []float64
	err    error
}

func (t *timeoutPredictor) Predict(ctx context.Context, rows []feature.Record) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	// Buffered so the call goroutine never blocks after we stop waiting.
	done := make(chan predictResult, 1)
	go func() {
		values, err := t.next.Predict(ctx, rows)
		done <- predictResult{values: values, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrPredictionFailed, ctx.Err())
	case res := <-done:
		return res.values, res.err
	}
}

// Name forwards to the wrapped predictor when it can describe itself.
func (t *timeoutPredictor) Name() string {
	if d, ok := t.next.(Describer); ok {
		return d.Name()
	}
	return "unknown"
}

// Version forwards to the wrapped predictor when it can describe itself.
func (t *timeoutPredictor) Version() string {
	if d, ok := t.next.(Describer); ok {
		return d.Version()
	}
	return "unknown"
}
