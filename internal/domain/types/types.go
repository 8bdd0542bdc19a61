// Package types contains the wire shapes shared by the HTTP API and its
// clients.
package types

import (
	"github.com/okian/growthdash/internal/domain/feature"
	"github.com/okian/growthdash/internal/domain/forecast"
	"github.com/okian/growthdash/internal/domain/skills"
)

// PredictRequest is the body of POST /predict. Omitted economic indicators
// take the dashboard slider defaults.
type PredictRequest struct {
	Industry         string   `json:"industry"`
	Field            string   `json:"field"`
	Year             int      `json:"year"`
	GDPGrowth        *float64 `json:"gdp_growth,omitempty"`
	InflationRate    *float64 `json:"inflation_rate,omitempty"`
	UnemploymentRate *float64 `json:"unemployment_rate,omitempty"`
}

// Inputs converts the request into builder inputs.
func (r PredictRequest) Inputs() feature.Inputs {
	in := feature.Inputs{
		Industry:         r.Industry,
		Field:            r.Field,
		Year:             r.Year,
		GDPGrowth:        feature.DefaultGDPGrowth,
		InflationRate:    feature.DefaultInflationRate,
		UnemploymentRate: feature.DefaultUnemploymentRate,
	}
	if r.GDPGrowth != nil {
		in.GDPGrowth = *r.GDPGrowth
	}
	if r.InflationRate != nil {
		in.InflationRate = *r.InflationRate
	}
	if r.UnemploymentRate != nil {
		in.UnemploymentRate = *r.UnemploymentRate
	}
	return in
}

// PredictResponse is the body returned by POST /predict.
type PredictResponse struct {
	ID       string           `json:"id"`
	Industry string           `json:"industry"`
	Field    string           `json:"field"`
	Year     int              `json:"year"`
	Headline float64          `json:"headline"`
	Series   []forecast.Point `json:"series"`
	Outlook  forecast.Outlook `json:"outlook"`
}

// NewPredictResponse flattens a forecast for the wire.
func NewPredictResponse(id string, f forecast.Forecast) PredictResponse {
	return PredictResponse{
		ID:       id,
		Industry: f.Record.Industry,
		Field:    f.Record.Field,
		Year:     f.Record.Year,
		Headline: f.Headline,
		Series:   f.Series,
		Outlook:  f.Outlook,
	}
}

// Skill is one ranked row of GET /skills.
type Skill struct {
	Skill       string `json:"skill"`
	DemandLevel string `json:"demand_level"`
	DemandScore int    `json:"demand_score"`
	Scored      bool   `json:"scored"`
	PeakPeriod  string `json:"peak_period"`
	Details     string `json:"details"`
}

// SkillsResponse is the body returned by GET /skills.
type SkillsResponse struct {
	Industry    string       `json:"industry"`
	Field       string       `json:"field"`
	Skills      []Skill      `json:"skills"`
	Leaderboard []skills.Bar `json:"leaderboard"`
	Empty       string       `json:"empty"`
	Message     string       `json:"message"`
}

// NewSkillsResponse converts a recommendation. Slices are never nil so
// clients always see arrays.
func NewSkillsResponse(rec skills.Recommendation) SkillsResponse {
	out := SkillsResponse{
		Industry:    rec.Industry,
		Field:       rec.Field,
		Skills:      make([]Skill, 0, len(rec.Skills)),
		Leaderboard: skills.Leaderboard(rec),
		Empty:       string(rec.Empty),
		Message:     rec.Message(),
	}
	for _, r := range rec.Skills {
		out.Skills = append(out.Skills, Skill{
			Skill:       r.Skill,
			DemandLevel: r.DemandLevel,
			DemandScore: r.Score,
			Scored:      r.Scored,
			PeakPeriod:  r.PeakPeriod,
			Details:     r.Details,
		})
	}
	return out
}

// IndustriesResponse is the body returned by GET /industries.
type IndustriesResponse struct {
	Industries []string `json:"industries"`
}
