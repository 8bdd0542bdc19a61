package probe

import (
	"fmt"
	"math"

	"github.com/okian/growthdash/internal/domain/types"
)

const maxDemandScore = 3

// verifyForecast checks the shape of one /predict response.
func verifyForecast(req types.PredictRequest, f types.PredictResponse) error {
	if f.Industry != req.Industry || f.Year != req.Year {
		return fmt.Errorf("echoed %s/%d, requested %s/%d", f.Industry, f.Year, req.Industry, req.Year)
	}
	if len(f.Series) != 4 {
		return fmt.Errorf("series has %d quarters, want 4", len(f.Series))
	}
	for i, p := range f.Series {
		if p.Quarter != i+1 {
			return fmt.Errorf("series position %d holds quarter %d", i, p.Quarter)
		}
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return fmt.Errorf("quarter %d is not finite", p.Quarter)
		}
	}
	if f.Headline != f.Series[0].Value {
		return fmt.Errorf("headline %.4f differs from quarter 1 value %.4f", f.Headline, f.Series[0].Value)
	}
	switch f.Outlook.Level {
	case "promising", "moderate":
	default:
		return fmt.Errorf("unknown outlook level %q", f.Outlook.Level)
	}
	if f.Outlook.Message == "" {
		return fmt.Errorf("empty outlook message")
	}
	return nil
}

// verifySameSeries checks that two forecasts for the same inputs agree.
func verifySameSeries(a, b types.PredictResponse) error {
	if len(a.Series) != len(b.Series) {
		return fmt.Errorf("repeat returned %d quarters, first call %d", len(b.Series), len(a.Series))
	}
	for i := range a.Series {
		if a.Series[i] != b.Series[i] {
			return fmt.Errorf("quarter %d changed between identical requests: %.6f vs %.6f",
				a.Series[i].Quarter, a.Series[i].Value, b.Series[i].Value)
		}
	}
	return nil
}

// verifySkills checks the ranking order of one /skills response: scored
// skills by descending score, unscored skills last.
func verifySkills(s types.SkillsResponse) error {
	if s.Empty != "" {
		if len(s.Skills) != 0 {
			return fmt.Errorf("empty result %q carries %d skills", s.Empty, len(s.Skills))
		}
		if s.Message == "" {
			return fmt.Errorf("empty result %q has no message", s.Empty)
		}
		return nil
	}
	if len(s.Skills) == 0 {
		return fmt.Errorf("no skills and no empty reason")
	}
	for i := 1; i < len(s.Skills); i++ {
		prev, cur := s.Skills[i-1], s.Skills[i]
		switch {
		case !prev.Scored && cur.Scored:
			return fmt.Errorf("scored skill %q ranked after unscored %q", cur.Skill, prev.Skill)
		case prev.Scored && cur.Scored && cur.DemandScore > prev.DemandScore:
			return fmt.Errorf("skill %q (score %d) ranked after %q (score %d)",
				cur.Skill, cur.DemandScore, prev.Skill, prev.DemandScore)
		}
	}
	scored := 0
	for _, k := range s.Skills {
		if k.Scored {
			scored++
		}
	}
	if len(s.Leaderboard) != scored {
		return fmt.Errorf("leaderboard has %d bars for %d scored skills", len(s.Leaderboard), scored)
	}
	for _, b := range s.Leaderboard {
		if b.Score < 1 || b.Score > maxDemandScore {
			return fmt.Errorf("leaderboard score %d for %q out of range", b.Score, b.Skill)
		}
	}
	return nil
}
