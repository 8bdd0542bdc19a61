package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/growthdash/internal/domain/skills"
	"github.com/okian/growthdash/pkg/logger"
	"github.com/okian/growthdash/pkg/metrics"
)

// CSVStore is an in-memory Store loaded from a CSV file.
type CSVStore struct {
	entries    []skills.Entry
	industries []string
	columns    map[string]string
	logger     logger.Logger
}

func newCSVStore(opts []Option) *CSVStore {
	s := &CSVStore{
		columns: map[string]string{
			ColumnIndustry:    ColumnIndustry,
			ColumnSkill:       ColumnSkill,
			ColumnDemandLevel: ColumnDemandLevel,
			ColumnPeakPeriod:  ColumnPeakPeriod,
			ColumnDetails:     ColumnDetails,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the reference table at path.
func Load(path string, opts ...Option) (*CSVStore, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	s, err := Parse(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.logger != nil {
		s.logger.Info(context.Background(), "skill reference loaded",
			logger.String("path", path),
			logger.Int("rows", s.Count()),
			logger.Int("industries", len(s.industries)))
	}
	return s, nil
}

// Parse reads a reference table from r. The header must contain every
// required column; extra columns are ignored and cells are trimmed.
func Parse(r io.Reader, opts ...Option) (*CSVStore, error) {
	s := newCSVStore(opts)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrInvalidSource, err)
	}
	idx, err := s.indexHeader(header)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidSource, line, err)
		}
		if blank(row) {
			continue
		}
		e := skills.Entry{
			Industry:    cell(row, idx[ColumnIndustry]),
			Skill:       cell(row, idx[ColumnSkill]),
			DemandLevel: cell(row, idx[ColumnDemandLevel]),
			PeakPeriod:  cell(row, idx[ColumnPeakPeriod]),
			Details:     cell(row, idx[ColumnDetails]),
		}
		s.entries = append(s.entries, e)
		if e.Industry != "" && !seen[e.Industry] {
			seen[e.Industry] = true
			s.industries = append(s.industries, e.Industry)
		}
	}
	if len(s.entries) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, ErrNoRows)
	}

	metrics.UpdateReferenceData(len(s.entries), len(s.industries))
	return s, nil
}

func (s *CSVStore) indexHeader(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	idx := make(map[string]int, len(s.columns))
	var missing []string
	for _, key := range []string{ColumnIndustry, ColumnSkill, ColumnDemandLevel, ColumnPeakPeriod, ColumnDetails} {
		i, ok := pos[s.columns[key]]
		if !ok {
			missing = append(missing, s.columns[key])
			continue
		}
		idx[key] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrInvalidSource, ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Entries returns a copy of the rows in file order.
func (s *CSVStore) Entries() []skills.Entry {
	out := make([]skills.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Industries returns the distinct industries in first-seen order.
func (s *CSVStore) Industries() []string {
	out := make([]string, len(s.industries))
	copy(out, s.industries)
	return out
}

// Count returns the number of reference rows.
func (s *CSVStore) Count() int { return len(s.entries) }
