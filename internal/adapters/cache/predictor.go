package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/predictor"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/okian/growthdash/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// Cache outcomes reported to metrics.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Predictor decorates another predictor with a Redis read-through cache.
// Redis failures are logged and bypassed; they never fail a prediction.
type Predictor struct {
	next   predictor.Predictor
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	model  string
	logger logger.Logger
}

// New wraps next with a cache backed by client.
func New(next predictor.Predictor, client redis.Cmdable, opts ...Option) *Predictor {
	p := &Predictor{
		next:   next,
		client: client,
		ttl:    DefaultTTL,
		prefix: DefaultPrefix,
		model:  "unknown",
		logger: logger.Get().Named("cache"),
	}
	if d, ok := next.(predictor.Describer); ok {
		p.model = d.Name() + "@" + d.Version()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict serves cached rows from Redis and forwards the misses to the
// wrapped predictor as a single batch.
func (p *Predictor) Predict(ctx context.Context, rows []feature.Record) ([]float64, error) {
	if len(rows) == 0 {
		return p.next.Predict(ctx, rows)
	}

	keys := make([]string, len(rows))
	for i, row := range rows {
		keys[i] = p.key(row)
	}

	cached, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		p.warn(ctx, "cache read failed", err)
		return p.next.Predict(ctx, rows)
	}

	out := make([]float64, len(rows))
	var missIdx []int
	for i, v := range cached {
		s, ok := v.(string)
		if !ok {
			missIdx = append(missIdx, i)
			continue
		}
		f, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			missIdx = append(missIdx, i)
			continue
		}
		out[i] = f
		metrics.RecordCacheResult(resultHit)
	}
	if len(missIdx) == 0 {
		return out, nil
	}

	missRows := make([]feature.Record, len(missIdx))
	for j, i := range missIdx {
		missRows[j] = rows[i]
		metrics.RecordCacheResult(resultMiss)
	}
	fresh, err := p.next.Predict(ctx, missRows)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missRows) {
		return nil, fmt.Errorf("%w: expected %d outputs, got %d", predictor.ErrPredictionFailed, len(missRows), len(fresh))
	}

	pipe := p.client.Pipeline()
	for j, i := range missIdx {
		out[i] = fresh[j]
		pipe.Set(ctx, keys[i], strconv.FormatFloat(fresh[j], 'g', -1, 64), p.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		p.warn(ctx, "cache write failed", err)
	}
	return out, nil
}

// Name forwards to the wrapped predictor.
func (p *Predictor) Name() string {
	if d, ok := p.next.(predictor.Describer); ok {
		return d.Name()
	}
	return "unknown"
}

// Version forwards to the wrapped predictor.
func (p *Predictor) Version() string {
	if d, ok := p.next.(predictor.Describer); ok {
		return d.Version()
	}
	return "unknown"
}

func (p *Predictor) key(row feature.Record) string {
	vals := row.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = feature.Canonical(v)
	}
	sum := sha256.Sum256([]byte(p.model + "\x1e" + strings.Join(parts, "\x1f")))
	return p.prefix + hex.EncodeToString(sum[:])
}

func (p *Predictor) warn(ctx context.Context, msg string, err error) {
	metrics.RecordCacheResult(resultError)
	p.logger.Warn(ctx, msg, logger.String("model", p.model), logger.Error(err))
}
