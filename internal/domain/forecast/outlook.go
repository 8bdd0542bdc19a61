package forecast

import (
	"fmt"

	"github.com/okian/growthdash/internal/domain/feature"
)

// Outlook levels.
const (
	LevelPromising = "promising"
	LevelModerate  = "moderate"
)

// Outlook is the recommendation attached to a headline growth rate.
type Outlook struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Promising reports whether the outlook is above the threshold.
func (o Outlook) Promising() bool { return o.Level == LevelPromising }

// Classify compares headline against threshold. Only a strictly greater
// headline is promising.
func Classify(headline, threshold float64, in feature.Record) Outlook {
	subject := in.Industry
	if in.Field != "" {
		subject = in.Field + " in " + in.Industry
	}
	if headline > threshold {
		return Outlook{
			Level: LevelPromising,
			Message: fmt.Sprintf("%s shows promising growth for %d. Investing here could yield positive results.",
				subject, in.Year),
		}
	}
	return Outlook{
		Level:   LevelModerate,
		Message: fmt.Sprintf("Growth for %s is moderate. Explore strategies to improve growth.", subject),
	}
}
