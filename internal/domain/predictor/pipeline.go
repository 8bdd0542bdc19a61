package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/xeipuuv/gojsonschema"
)

// Artifact is the serialized form of a fitted pipeline: per-column standard
// scaling for numeric columns, one-hot coefficients for categorical columns,
// and a linear head.
type Artifact struct {
	Name        string                 `json:"name"`
	Version     string                 `json:"version"`
	Target      string                 `json:"target"`
	Columns     []string               `json:"columns"`
	Intercept   float64                `json:"intercept"`
	Numeric     map[string]Scaled      `json:"numeric"`
	Categorical map[string]Categorical `json:"categorical"`
	Drop        []string               `json:"drop"`
}

// Scaled is a standardized numeric term: coef * (x - mean) / scale.
type Scaled struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
	Coef  float64 `json:"coef"`
}

// Categorical holds one coefficient per known level. Unknown levels add 0.
type Categorical struct {
	Levels map[string]float64 `json:"levels"`
}

type termKind int

const (
	termDrop termKind = iota
	termNumeric
	termCategorical
)

type term struct {
	kind   termKind
	scaled Scaled
	levels map[string]float64
}

// Pipeline is an immutable, loaded Artifact. It is safe for concurrent use.
type Pipeline struct {
	name      string
	version   string
	intercept float64
	terms     []term // aligned with feature.Columns()
}

// Load reads and parses an artifact file.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidArtifact, path, err)
	}
	return Parse(data)
}

// Parse validates raw artifact JSON against the artifact schema, then checks
// that its column list is exactly the feature record schema.
func Parse(data []byte) (*Pipeline, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(artifactSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidArtifact, strings.Join(errs, "; "))
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, err)
	}
	return New(a)
}

// New builds a Pipeline from a decoded artifact.
func New(a Artifact) (*Pipeline, error) {
	want := feature.Columns()
	if len(a.Columns) != len(want) {
		return nil, fmt.Errorf("%w: expected %d columns, artifact declares %d", ErrInvalidArtifact, len(want), len(a.Columns))
	}
	for i := range want {
		if a.Columns[i] != want[i] {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q", ErrInvalidArtifact, i, a.Columns[i], want[i])
		}
	}

	dropped := make(map[string]bool, len(a.Drop))
	for _, c := range a.Drop {
		dropped[c] = true
	}

	p := &Pipeline{
		name:      a.Name,
		version:   a.Version,
		intercept: a.Intercept,
		terms:     make([]term, len(want)),
	}
	for i, col := range want {
		num, isNum := a.Numeric[col]
		cat, isCat := a.Categorical[col]
		covered := 0
		for _, b := range []bool{isNum, isCat, dropped[col]} {
			if b {
				covered++
			}
		}
		if covered != 1 {
			return nil, fmt.Errorf("%w: column %q must appear in exactly one of numeric, categorical, drop", ErrInvalidArtifact, col)
		}
		switch {
		case isNum:
			if num.Scale <= 0 {
				return nil, fmt.Errorf("%w: column %q has non-positive scale", ErrInvalidArtifact, col)
			}
			p.terms[i] = term{kind: termNumeric, scaled: num}
		case isCat:
			p.terms[i] = term{kind: termCategorical, levels: cat.Levels}
		default:
			p.terms[i] = term{kind: termDrop}
		}
	}

	for col := range a.Numeric {
		if !contains(want, col) {
			return nil, fmt.Errorf("%w: unknown numeric column %q", ErrInvalidArtifact, col)
		}
	}
	for col := range a.Categorical {
		if !contains(want, col) {
			return nil, fmt.Errorf("%w: unknown categorical column %q", ErrInvalidArtifact, col)
		}
	}
	return p, nil
}

// Name returns the artifact name.
func (p *Pipeline) Name() string { return p.name }

// Version returns the artifact version.
func (p *Pipeline) Version() string { return p.version }

// Predict scores each row. A row that violates the record constraints fails
// the whole batch.
func (p *Pipeline) Predict(ctx context.Context, rows []feature.Record) ([]float64, error) {
	out := make([]float64, len(rows))
	for r, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPredictionFailed, err)
		}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrPredictionFailed, r, err)
		}
		y, err := p.score(row.Values())
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrPredictionFailed, r, err)
		}
		out[r] = y
	}
	return out, nil
}

func (p *Pipeline) score(values []any) (float64, error) {
	y := p.intercept
	for i, t := range p.terms {
		switch t.kind {
		case termNumeric:
			x, ok := feature.Numeric(values[i])
			if !ok {
				return 0, fmt.Errorf("column %d: expected a number, got %T", i, values[i])
			}
			y += t.scaled.Coef * (x - t.scaled.Mean) / t.scaled.Scale
		case termCategorical:
			y += t.levels[feature.Canonical(values[i])]
		case termDrop:
		}
	}
	return y, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
