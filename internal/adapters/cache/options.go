package cache

import (
	"time"

	"github.com/okian/growthdash/pkg/logger"
)

// Default cache settings.
const (
	DefaultTTL    = 10 * time.Minute
	DefaultPrefix = "growthdash:pred:"
)

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithTTL sets how long cached outputs live.
func WithTTL(ttl time.Duration) Option {
	return func(p *Predictor) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(p *Predictor) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithModelKey overrides the model identity mixed into every key. By default
// it is taken from the wrapped predictor's name and version.
func WithModelKey(key string) Option {
	return func(p *Predictor) {
		if key != "" {
			p.model = key
		}
	}
}

// WithLogger sets the logger used for cache errors.
func WithLogger(l logger.Logger) Option {
	return func(p *Predictor) {
		if l != nil {
			p.logger = l
		}
	}
}
