// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/growthdash/internal/adapters/repository"
	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/forecast"
	"github.com/okian/growthdash/internal/domain/predictor"
	"github.com/okian/growthdash/internal/domain/skills"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/okian/growthdash/pkg/metrics"
)

// Service implements the API dependencies for the growth dashboard. The
// reference store and predictor are loaded once by Start and are read-only
// afterwards.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	source    predictor.Predictor // unwrapped, as loaded or supplied
	predictor predictor.Predictor
	builder   *feature.Builder

	// Configuration
	modelPath        string
	skillsPath       string
	predictTimeout   time.Duration
	sweepConcurrency int
	threshold        float64
	wrapCache        func(predictor.Predictor) predictor.Predictor

	// State
	started   bool
	startedAt time.Time
	modelName string
	modelVer  string

	predictions     atomic.Int64
	failures        atomic.Int64
	rejected        atomic.Int64
	recommendations atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithModelPath sets the pipeline artifact loaded by Start.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithSkillsPath sets the skill reference CSV loaded by Start.
func WithSkillsPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.skillsPath = path
		}
	}
}

// WithPredictor supplies a ready predictor; Start then skips loading the
// artifact.
func WithPredictor(p predictor.Predictor) Option {
	return func(s *Service) {
		s.source = p
	}
}

// WithSkillStore supplies a ready reference store; Start then skips loading
// the CSV.
func WithSkillStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithPredictTimeout bounds every predictor call. Zero disables the bound.
func WithPredictTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.predictTimeout = d
		}
	}
}

// WithSweepConcurrency caps predictor calls in flight per sweep.
func WithSweepConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sweepConcurrency = n
		}
	}
}

// WithGrowthThreshold sets the headline rate above which the outlook is
// promising.
func WithGrowthThreshold(t float64) Option {
	return func(s *Service) {
		s.threshold = t
	}
}

// WithCache installs a decorator applied around the (timeout-bounded)
// predictor, e.g. the Redis prediction cache.
func WithCache(wrap func(predictor.Predictor) predictor.Predictor) Option {
	return func(s *Service) {
		s.wrapCache = wrap
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath:        "data/model_pipeline.json",
		skillsPath:       "data/high_skills.csv",
		predictTimeout:   2 * time.Second,
		sweepConcurrency: forecast.DefaultConcurrency,
		threshold:        forecast.DefaultThreshold,
		logger:           nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the reference data and the predictor. Any load failure is
// returned and leaves the service stopped.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting growth service...")

	store := s.store
	if store == nil {
		loaded, err := repository.Load(s.skillsPath, repository.WithLogger(s.logger.Named("repository")))
		if err != nil {
			return fmt.Errorf("load skill reference: %w", err)
		}
		store = loaded
	}

	base := s.source
	if base == nil {
		pipe, err := predictor.Load(s.modelPath)
		if err != nil {
			return fmt.Errorf("load predictor: %w", err)
		}
		base = pipe
	}
	s.modelName, s.modelVer = "custom", "unknown"
	if d, ok := base.(predictor.Describer); ok {
		s.modelName, s.modelVer = d.Name(), d.Version()
	}

	p := predictor.WithTimeout(base, s.predictTimeout)
	if s.wrapCache != nil {
		p = s.wrapCache(p)
	}

	s.store = store
	s.source = base
	s.predictor = p
	s.builder = feature.NewBuilder(feature.WithIndustries(store.Industries()))
	s.started = true
	s.startedAt = time.Now()

	metrics.SetModelInfo(s.modelName, s.modelVer)
	metrics.UpdateReferenceData(store.Count(), len(store.Industries()))

	s.logger.Info(ctx, "growth service started",
		logger.String("model", s.modelName),
		logger.String("modelVersion", s.modelVer),
		logger.Int("skills", store.Count()),
		logger.Int("industries", len(store.Industries())),
		logger.Duration("predictTimeout", s.predictTimeout),
		logger.Int("sweepConcurrency", s.sweepConcurrency),
		logger.Bool("cache", s.wrapCache != nil),
	)

	return nil
}

// Stop marks the service as stopped. Loaded data is kept so a restart does
// not reload it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "growth service stopped")
}

func (s *Service) components() (repository.Store, predictor.Predictor, *feature.Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.store, s.predictor, s.builder, nil
}

// Predict validates the inputs, sweeps the four quarters and classifies the
// headline.
func (s *Service) Predict(ctx context.Context, in feature.Inputs) (forecast.Forecast, error) {
	_, p, builder, err := s.components()
	if err != nil {
		return forecast.Forecast{}, err
	}

	rec, err := builder.Build(in)
	if err != nil {
		s.rejected.Add(1)
		metrics.RecordPrediction("invalid_input")
		return forecast.Forecast{}, err
	}

	f, err := forecast.Sweep(ctx, rec, p,
		forecast.WithConcurrency(s.sweepConcurrency),
		forecast.WithThreshold(s.threshold),
		forecast.WithLogger(s.logger.Named("forecast")),
	)
	if err != nil {
		s.failures.Add(1)
		metrics.RecordPrediction("failed")
		return forecast.Forecast{}, err
	}

	s.predictions.Add(1)
	metrics.RecordPrediction("success")
	metrics.RecordOutlook(f.Outlook.Level, f.Headline)
	return f, nil
}

// Recommend ranks the reference skills of industry, optionally narrowed by
// a field substring. An empty result is not an error.
func (s *Service) Recommend(ctx context.Context, industry, field string) (skills.Recommendation, error) {
	store, _, _, err := s.components()
	if err != nil {
		return skills.Recommendation{}, err
	}
	if strings.TrimSpace(industry) == "" {
		return skills.Recommendation{}, &feature.ValidationError{
			Issues: []feature.Issue{{Field: feature.ColIndustry, Reason: "must not be empty"}},
		}
	}
	if err := feature.CheckFieldFilter(field); err != nil {
		return skills.Recommendation{}, err
	}

	rec := skills.Recommend(store, industry, field)
	s.recommendations.Add(1)
	outcome := "ok"
	if rec.Empty != skills.EmptyNone {
		outcome = "empty_" + string(rec.Empty)
	}
	metrics.RecordRecommendation(outcome)
	s.logger.Debug(ctx, "skills recommended",
		logger.String("industry", industry),
		logger.String("field", field),
		logger.Int("matches", len(rec.Skills)),
		logger.String("outcome", outcome),
	)
	return rec, nil
}

// Industries returns the industries of the reference table in first-seen
// order.
func (s *Service) Industries(_ context.Context) ([]string, error) {
	store, _, _, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.Industries(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"predictTimeoutMs":   s.predictTimeout.Milliseconds(),
		"sweepConcurrency":   s.sweepConcurrency,
		"growthThreshold":    s.threshold,
		"cacheEnabled":       s.wrapCache != nil,
		"predictions":        s.predictions.Load(),
		"predictionFailures": s.failures.Load(),
		"rejectedInputs":     s.rejected.Load(),
		"recommendations":    s.recommendations.Load(),
	}

	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["model"] = s.modelName
		stats["modelVersion"] = s.modelVer
		stats["referenceSkills"] = s.store.Count()
		stats["industries"] = len(s.store.Industries())
	}

	return stats
}
