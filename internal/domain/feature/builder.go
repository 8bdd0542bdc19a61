package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Supported forecast years.
var supportedYears = []int{2025, 2026, 2027} //nolint:gochecknoglobals // immutable enum

// Slider bounds and limits for user inputs.
const (
	minGDPGrowth        = -10.0
	maxGDPGrowth        = 10.0
	minInflationRate    = 0.0
	maxInflationRate    = 20.0
	minUnemploymentRate = 0.0
	maxUnemploymentRate = 25.0
	maxFieldRunes       = 100
)

// Slider defaults, used by clients that want the dashboard's initial state.
const (
	DefaultGDPGrowth        = 2.5
	DefaultInflationRate    = 3.0
	DefaultUnemploymentRate = 5.0
)

// Inputs are the user-controlled fields of a prediction request.
type Inputs struct {
	Industry         string  `json:"industry"`
	Field            string  `json:"field"`
	Year             int     `json:"year"`
	GDPGrowth        float64 `json:"gdp_growth"`
	InflationRate    float64 `json:"inflation_rate"`
	UnemploymentRate float64 `json:"unemployment_rate"`
}

// Option configures a Builder.
type Option func(*Builder)

// WithIndustries restricts accepted industries to the given set. An empty
// set leaves only the non-empty check in place.
func WithIndustries(industries []string) Option {
	return func(b *Builder) {
		if len(industries) == 0 {
			return
		}
		b.industries = make(map[string]struct{}, len(industries))
		for _, ind := range industries {
			b.industries[ind] = struct{}{}
		}
	}
}

// Builder turns validated Inputs into complete records.
type Builder struct {
	industries map[string]struct{}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates in and returns a record with every non-user column at its
// fixed default and quarter set to 1.
func (b *Builder) Build(in Inputs) (Record, error) {
	if err := b.validate(in); err != nil {
		return Record{}, err
	}
	return Record{
		Industry:           in.Industry,
		Field:              in.Field,
		Year:               in.Year,
		GDPGrowth:          in.GDPGrowth,
		InflationRate:      in.InflationRate,
		UnemploymentRate:   in.UnemploymentRate,
		SupplyChainIndex:   50.0,
		RegulatoryScore:    3.0,
		AdoptionRate:       0.5,
		MarketSizeBn:       10.0,
		Quarter:            firstQuarter,
		CompetitionIndex:   0.6,
		WorkforceDemand:    1000,
		EnergyCosts:        100.0,
		ExportGrowth:       5.0,
		InterestRate:       2.0,
		ConsumerSentiment:  0.7,
		VentureFundingBn:   1.0,
		RAndDSpendingMn:    500.0,
		RAndDSpendingMnRWF: 500.0,
		InvestmentBnRWF:    10.0,
		MarketSizeBnRWF:    10.0,
	}, nil
}

// Build is NewBuilder().Build(in): no industry allow-list.
func Build(in Inputs) (Record, error) {
	return NewBuilder().Build(in)
}

// Known reports whether the industry passes the allow-list.
func (b *Builder) Known(industry string) bool {
	if b.industries == nil {
		return industry != ""
	}
	_, ok := b.industries[industry]
	return ok
}

func (b *Builder) validate(in Inputs) error {
	v := &ValidationError{}

	switch {
	case strings.TrimSpace(in.Industry) == "":
		v.add(ColIndustry, "must not be empty")
	case !b.Known(in.Industry):
		v.add(ColIndustry, fmt.Sprintf("%q is not a known industry", in.Industry))
	}

	if reason := checkFieldFilter(in.Field); reason != "" {
		v.add(ColField, reason)
	}

	if !validYear(in.Year) {
		v.add(ColYear, "must be one of "+yearsText())
	}

	checkRange(v, ColGDPGrowth, in.GDPGrowth, minGDPGrowth, maxGDPGrowth)
	checkRange(v, ColInflationRate, in.InflationRate, minInflationRate, maxInflationRate)
	checkRange(v, ColUnemploymentRate, in.UnemploymentRate, minUnemploymentRate, maxUnemploymentRate)

	return v.orNil()
}

// CheckFieldFilter validates a free-text field filter. It is shared with the
// skills endpoint, which accepts the same text.
func CheckFieldFilter(field string) error {
	if reason := checkFieldFilter(field); reason != "" {
		return &ValidationError{Issues: []Issue{{Field: ColField, Reason: reason}}}
	}
	return nil
}

func checkFieldFilter(field string) string {
	if !utf8.ValidString(field) {
		return "must be valid UTF-8"
	}
	if utf8.RuneCountInString(field) > maxFieldRunes {
		return fmt.Sprintf("must be at most %d characters", maxFieldRunes)
	}
	if strings.IndexFunc(field, unicode.IsControl) >= 0 {
		return "must not contain control characters"
	}
	return ""
}

func checkRange(v *ValidationError, name string, val, lo, hi float64) {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		v.add(name, "must be a finite number")
		return
	}
	if val < lo || val > hi {
		v.add(name, fmt.Sprintf("must be between %g and %g", lo, hi))
	}
}

func validYear(y int) bool {
	for _, s := range supportedYears {
		if s == y {
			return true
		}
	}
	return false
}

// Years returns the supported forecast years.
func Years() []int {
	out := make([]int, len(supportedYears))
	copy(out, supportedYears)
	return out
}

func yearsText() string {
	parts := make([]string, len(supportedYears))
	for i, y := range supportedYears {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}
