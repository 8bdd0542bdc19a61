package skills

import (
	"sort"
	"strings"
)

// EmptyKind records which filter stage emptied a recommendation.
type EmptyKind string

// Empty outcomes.
const (
	EmptyNone     EmptyKind = ""
	EmptyIndustry EmptyKind = "industry"
	EmptyField    EmptyKind = "field"
)

// Recommendation is the ranked skill list for an industry and optional field
// filter. An empty result is a value, not an error.
type Recommendation struct {
	Industry string
	Field    string
	Skills   []Ranked
	Empty    EmptyKind
}

// Message explains an empty recommendation. It is blank otherwise.
func (r Recommendation) Message() string {
	switch r.Empty {
	case EmptyIndustry:
		return "No skills found for the selected industry."
	case EmptyField:
		return "No skills found for the selected industry and field."
	default:
		return ""
	}
}

// Recommend keeps the entries whose industry equals industry exactly, then,
// when field is non-empty, those whose skill contains field ignoring case.
// The result is ordered by descending demand score with unscored entries
// last; ties keep file order.
func Recommend(src Source, industry, field string) Recommendation {
	rec := Recommendation{Industry: industry, Field: field}

	var matched []Ranked
	for _, e := range src.Entries() {
		if e.Industry == industry {
			matched = append(matched, rank(e))
		}
	}
	if len(matched) == 0 {
		rec.Empty = EmptyIndustry
		return rec
	}

	if field != "" {
		needle := strings.ToLower(field)
		kept := matched[:0]
		for _, r := range matched {
			if r.Skill != "" && strings.Contains(strings.ToLower(r.Skill), needle) {
				kept = append(kept, r)
			}
		}
		matched = kept
		if len(matched) == 0 {
			rec.Empty = EmptyField
			return rec
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Scored != b.Scored {
			return a.Scored
		}
		return a.Score > b.Score
	})
	rec.Skills = matched
	return rec
}

// Industries returns the distinct industries of src in first-seen order.
func Industries(src Source) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range src.Entries() {
		if e.Industry == "" || seen[e.Industry] {
			continue
		}
		seen[e.Industry] = true
		out = append(out, e.Industry)
	}
	return out
}

// Bar is one bar of the demand leaderboard chart.
type Bar struct {
	Skill string `json:"skill"`
	Level string `json:"demand_level"`
	Score int    `json:"demand_score"`
}

// Leaderboard returns chart bars for the scored skills of rec, in rank order.
func Leaderboard(rec Recommendation) []Bar {
	bars := make([]Bar, 0, len(rec.Skills))
	for _, r := range rec.Skills {
		if !r.Scored {
			continue
		}
		bars = append(bars, Bar{Skill: r.Skill, Level: r.DemandLevel, Score: r.Score})
	}
	return bars
}
