package forecast

import "github.com/okian/growthdash/pkg/logger"

// Default sweep configuration.
const (
	DefaultConcurrency = 4
	DefaultThreshold   = 4.0
)

// Option configures a single Sweep.
type Option func(*sweepConfig)

type sweepConfig struct {
	concurrency int
	threshold   float64
	logger      logger.Logger
}

func newSweepConfig(opts []Option) sweepConfig {
	cfg := sweepConfig{
		concurrency: DefaultConcurrency,
		threshold:   DefaultThreshold,
		logger:      logger.Get().Named("forecast"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithConcurrency caps the number of predictor calls in flight. 1 runs the
// quarters sequentially.
func WithConcurrency(n int) Option {
	return func(c *sweepConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithThreshold sets the headline growth rate above which the outlook is
// promising.
func WithThreshold(t float64) Option {
	return func(c *sweepConfig) {
		c.threshold = t
	}
}

// WithLogger sets the logger used for sweep diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *sweepConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
