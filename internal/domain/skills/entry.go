// Package skills filters and ranks the high-demand skill reference table.
package skills

import "strings"

// Demand levels with a known ordinal.
const (
	LevelMedium   = "Medium"
	LevelHigh     = "High"
	LevelVeryHigh = "Very High"
)

// Entry is one row of the skill reference table.
type Entry struct {
	Industry    string `json:"industry"`
	Skill       string `json:"skill"`
	DemandLevel string `json:"demand_level"`
	PeakPeriod  string `json:"peak_period"`
	Details     string `json:"details"`
}

// Source provides reference entries in file order.
type Source interface {
	Entries() []Entry
}

// DemandScore maps a demand level to its ordinal. Low and unrecognised
// levels are unscored.
func DemandScore(level string) (int, bool) {
	switch strings.TrimSpace(level) {
	case LevelMedium:
		return 1, true
	case LevelHigh:
		return 2, true
	case LevelVeryHigh:
		return 3, true
	default:
		return 0, false
	}
}

// Ranked is an Entry with its demand score attached.
type Ranked struct {
	Entry
	Score  int  `json:"demand_score"`
	Scored bool `json:"scored"`
}

func rank(e Entry) Ranked {
	score, ok := DemandScore(e.DemandLevel)
	return Ranked{Entry: e, Score: score, Scored: ok}
}
