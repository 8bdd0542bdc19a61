package probe

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/types"
	"github.com/okian/growthdash/pkg/logger"
)

// Config holds configuration for a probe run.
type Config struct {
	Workers int   // Concurrent prediction requests
	Years   []int // Years to forecast; defaults to every supported year
	Verbose bool  // Log every request
}

// Report summarises a probe run. Failures lists every check that did not
// hold; the run itself only errors when the service cannot be reached.
type Report struct {
	RunID       string        `json:"run_id"`
	Industries  int           `json:"industries"`
	Predictions int           `json:"predictions"`
	Promising   int           `json:"promising"`
	SkillLists  int           `json:"skill_lists"`
	Failures    []string      `json:"failures"`
	Duration    time.Duration `json:"duration_ns"`
}

// Passed reports whether every check held.
func (r Report) Passed() bool { return len(r.Failures) == 0 }

type failures struct {
	mu   sync.Mutex
	list []string
}

func (f *failures) add(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, fmt.Sprintf(format, args...))
}

// Run verifies a live service end to end: it forecasts every industry and
// year concurrently, repeats one request to check determinism, and checks
// the skill ranking of every industry.
func Run(ctx context.Context, client *Client, cfg Config) (Report, error) {
	start := time.Now()
	log := logger.Named("probe")
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if len(cfg.Years) == 0 {
		cfg.Years = feature.Years()
	}
	report := Report{RunID: uuid.NewString(), Failures: []string{}}

	log.Info(ctx, "starting probe",
		logger.String("runID", report.RunID),
		logger.Int("workers", cfg.Workers),
		logger.Any("years", cfg.Years))

	if err := client.Health(ctx); err != nil {
		return report, fmt.Errorf("service health check failed: %w", err)
	}
	industries, err := client.Industries(ctx)
	if err != nil {
		return report, fmt.Errorf("industry listing failed: %w", err)
	}
	report.Industries = len(industries)

	var fails failures
	if len(industries) == 0 {
		fails.add("service lists no industries")
	}

	jobs := make([]types.PredictRequest, 0, len(industries)*len(cfg.Years))
	for _, ind := range industries {
		for _, y := range cfg.Years {
			jobs = append(jobs, types.PredictRequest{Industry: ind, Year: y})
		}
	}
	results, promising := predictAll(ctx, client, cfg, jobs, &fails)
	report.Predictions = len(jobs)
	report.Promising = promising

	if len(jobs) > 0 && results[0].Series != nil {
		again, err := client.Predict(ctx, jobs[0])
		if err != nil {
			fails.add("repeat %s/%d: %v", jobs[0].Industry, jobs[0].Year, err)
		} else if err := verifySameSeries(results[0], again); err != nil {
			fails.add("determinism %s/%d: %v", jobs[0].Industry, jobs[0].Year, err)
		}
	}

	for _, ind := range industries {
		s, err := client.Skills(ctx, ind, "")
		if err != nil {
			fails.add("skills %s: %v", ind, err)
			continue
		}
		report.SkillLists++
		if err := verifySkills(s); err != nil {
			fails.add("skills %s: %v", ind, err)
		}
	}

	report.Failures = append(report.Failures, fails.list...)
	report.Duration = time.Since(start)

	log.Info(ctx, "probe finished",
		logger.String("runID", report.RunID),
		logger.Int("predictions", report.Predictions),
		logger.Int("failures", len(report.Failures)),
		logger.Duration("duration", report.Duration))
	return report, nil
}

// predictAll submits jobs through a fixed worker pool. Results are stored by
// job index; a failed job leaves its slot zero.
func predictAll(ctx context.Context, client *Client, cfg Config, jobs []types.PredictRequest, fails *failures) ([]types.PredictResponse, int) {
	log := logger.Named("probe")
	results := make([]types.PredictResponse, len(jobs))
	var promising int64

	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				if ctx.Err() != nil {
					continue
				}
				req := jobs[idx]
				f, err := client.Predict(ctx, req)
				if err != nil {
					fails.add("predict %s/%d: %v", req.Industry, req.Year, err)
					continue
				}
				if err := verifyForecast(req, f); err != nil {
					fails.add("predict %s/%d: %v", req.Industry, req.Year, err)
					continue
				}
				results[idx] = f
				if f.Outlook.Level == "promising" {
					atomic.AddInt64(&promising, 1)
				}
				if cfg.Verbose {
					log.Info(ctx, "forecast verified",
						logger.String("industry", req.Industry),
						logger.Int("year", req.Year),
						logger.Float64("headline", f.Headline))
				}
			}
		}()
	}

	func() {
		defer close(jobChan)
		for i := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobChan <- i:
			}
		}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		fails.add("probe interrupted: %v", err)
	}
	return results, int(atomic.LoadInt64(&promising))
}
