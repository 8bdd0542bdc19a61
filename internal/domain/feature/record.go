// Package feature builds the fixed-schema feature record consumed by the
// growth-rate predictor.
package feature

import (
	"fmt"
	"math"
	"strconv"
)

// Column names in the order the prediction pipeline expects them.
const (
	ColIndustry           = "industry"
	ColField              = "field"
	ColYear               = "year"
	ColGDPGrowth          = "gdp_growth"
	ColInflationRate      = "inflation_rate"
	ColUnemploymentRate   = "unemployment_rate"
	ColSupplyChainIndex   = "supply_chain_index"
	ColRegulatoryScore    = "regulatory_score"
	ColAdoptionRate       = "adoption_rate"
	ColMarketSizeBn       = "market_size_bn"
	ColQuarter            = "quarter"
	ColCompetitionIndex   = "competition_index"
	ColWorkforceDemand    = "workforce_demand"
	ColEnergyCosts        = "energy_costs"
	ColExportGrowth       = "export_growth"
	ColInterestRate       = "interest_rate"
	ColConsumerSentiment  = "consumer_sentiment"
	ColVentureFundingBn   = "venture_funding_bn"
	ColRAndDSpendingMn    = "r_and_d_spending_mn"
	ColRAndDSpendingMnRWF = "r_and_d_spending_mn_rwf"
	ColInvestmentBnRWF    = "investment_bn_rwf"
	ColMarketSizeBnRWF    = "market_size_bn_rwf"
)

const (
	columnCount  = 22
	firstQuarter = 1
	lastQuarter  = 4
)

var columns = [columnCount]string{ //nolint:gochecknoglobals // immutable schema
	ColIndustry, ColField, ColYear, ColGDPGrowth, ColInflationRate, ColUnemploymentRate,
	ColSupplyChainIndex, ColRegulatoryScore, ColAdoptionRate, ColMarketSizeBn, ColQuarter,
	ColCompetitionIndex, ColWorkforceDemand, ColEnergyCosts, ColExportGrowth, ColInterestRate,
	ColConsumerSentiment, ColVentureFundingBn, ColRAndDSpendingMn, ColRAndDSpendingMnRWF,
	ColInvestmentBnRWF, ColMarketSizeBnRWF,
}

// Columns returns the ordered record schema. The slice is a fresh copy.
func Columns() []string {
	out := make([]string, columnCount)
	copy(out, columns[:])
	return out
}

// Quarters returns the quarters covered by a sweep, ascending.
func Quarters() []int {
	out := make([]int, 0, lastQuarter)
	for q := firstQuarter; q <= lastQuarter; q++ {
		out = append(out, q)
	}
	return out
}

// Record is one prediction request row. Field order matches Columns.
type Record struct {
	Industry           string  `json:"industry"`
	Field              string  `json:"field"`
	Year               int     `json:"year"`
	GDPGrowth          float64 `json:"gdp_growth"`
	InflationRate      float64 `json:"inflation_rate"`
	UnemploymentRate   float64 `json:"unemployment_rate"`
	SupplyChainIndex   float64 `json:"supply_chain_index"`
	RegulatoryScore    float64 `json:"regulatory_score"`
	AdoptionRate       float64 `json:"adoption_rate"`
	MarketSizeBn       float64 `json:"market_size_bn"`
	Quarter            int     `json:"quarter"`
	CompetitionIndex   float64 `json:"competition_index"`
	WorkforceDemand    int     `json:"workforce_demand"`
	EnergyCosts        float64 `json:"energy_costs"`
	ExportGrowth       float64 `json:"export_growth"`
	InterestRate       float64 `json:"interest_rate"`
	ConsumerSentiment  float64 `json:"consumer_sentiment"`
	VentureFundingBn   float64 `json:"venture_funding_bn"`
	RAndDSpendingMn    float64 `json:"r_and_d_spending_mn"`
	RAndDSpendingMnRWF float64 `json:"r_and_d_spending_mn_rwf"`
	InvestmentBnRWF    float64 `json:"investment_bn_rwf"`
	MarketSizeBnRWF    float64 `json:"market_size_bn_rwf"`
}

// Values returns the row in column order. Each value is a string, an int or
// a float64.
func (r Record) Values() []any {
	return []any{
		r.Industry, r.Field, r.Year, r.GDPGrowth, r.InflationRate, r.UnemploymentRate,
		r.SupplyChainIndex, r.RegulatoryScore, r.AdoptionRate, r.MarketSizeBn, r.Quarter,
		r.CompetitionIndex, r.WorkforceDemand, r.EnergyCosts, r.ExportGrowth, r.InterestRate,
		r.ConsumerSentiment, r.VentureFundingBn, r.RAndDSpendingMn, r.RAndDSpendingMnRWF,
		r.InvestmentBnRWF, r.MarketSizeBnRWF,
	}
}

// Value looks up a single column.
func (r Record) Value(column string) (any, bool) {
	for i, c := range columns {
		if c == column {
			return r.Values()[i], true
		}
	}
	return nil, false
}

// WithQuarter returns a copy of r with only the quarter overwritten.
func (r Record) WithQuarter(q int) Record {
	r.Quarter = q
	return r
}

// Validate checks the enum and finiteness constraints of a record that is
// about to reach the predictor.
func (r Record) Validate() error {
	v := &ValidationError{}
	if r.Industry == "" {
		v.add(ColIndustry, "must not be empty")
	}
	if !validYear(r.Year) {
		v.add(ColYear, "must be one of "+yearsText())
	}
	if r.Quarter < firstQuarter || r.Quarter > lastQuarter {
		v.add(ColQuarter, fmt.Sprintf("must be between %d and %d", firstQuarter, lastQuarter))
	}
	for i, val := range r.Values() {
		if f, ok := val.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v.add(columns[i], "must be a finite number")
		}
	}
	return v.orNil()
}

// Canonical renders a scalar value the way categorical encoders key it:
// strings as-is, ints in base 10, floats in shortest form.
func Canonical(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Numeric converts an int or float64 column value to float64.
func Numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
