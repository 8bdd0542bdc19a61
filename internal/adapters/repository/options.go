package repository

import "github.com/okian/growthdash/pkg/logger"

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithLogger sets the logger used to report load results.
func WithLogger(l logger.Logger) Option {
	return func(s *CSVStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithColumns overrides the header names the loader looks for, keyed by
// the default names (industry, Skill, Demand_Level, Peak_Period, Details).
func WithColumns(names map[string]string) Option {
	return func(s *CSVStore) {
		for k, v := range names {
			if _, ok := s.columns[k]; ok && v != "" {
				s.columns[k] = v
			}
		}
	}
}
