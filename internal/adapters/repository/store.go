// Package repository loads the read-only skill reference table.
package repository

import "github.com/okian/growthdash/internal/domain/skills"

// Default header names of the reference CSV.
const (
	ColumnIndustry    = "industry"
	ColumnSkill       = "Skill"
	ColumnDemandLevel = "Demand_Level"
	ColumnPeakPeriod  = "Peak_Period"
	ColumnDetails     = "Details"
)

// Store provides read access to the skill reference table. Implementations
// are immutable after load and safe for concurrent use.
type Store interface {
	skills.Source

	// Industries returns the distinct industries in first-seen order.
	Industries() []string

	// Count returns the number of reference rows.
	Count() int
}
