package probe

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/okian/growthdash/internal/domain/types"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned for an output format other than the above.
var ErrUnknownFormat = errors.New("unknown output format")

const barWidth = 30

//nolint:gochecknoglobals // immutable terminal styles
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promisingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	moderateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
)

// CheckFormat validates an output format name.
func CheckFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q (want table, json or yaml)", ErrUnknownFormat, format)
	}
}

// Render writes v in the machine formats, or calls table for FormatTable.
func Render(w io.Writer, format string, v any, table func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		// Round-trip through JSON so YAML keys match the wire names.
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatTable:
		return table(w)
	default:
		return CheckFormat(format)
	}
}

// ForecastTable prints the headline, the outlook, and one row per quarter.
func ForecastTable(f types.PredictResponse) func(io.Writer) error {
	return func(w io.Writer) error {
		subject := f.Industry
		if f.Field != "" {
			subject = f.Field + " in " + f.Industry
		}
		var sb strings.Builder
		sb.WriteString(titleStyle.Render(fmt.Sprintf("Predicted growth for %s in %d", subject, f.Year)))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Headline: %.2f%%\n", f.Headline))
		style := moderateStyle
		if f.Outlook.Level == "promising" {
			style = promisingStyle
		}
		sb.WriteString(style.Render(f.Outlook.Message))
		sb.WriteString("\n\n")

		maxAbs := 0.0
		for _, p := range f.Series {
			maxAbs = max(maxAbs, abs(p.Value))
		}
		rows := make([][]string, 0, len(f.Series))
		for _, p := range f.Series {
			rows = append(rows, []string{
				"Q" + strconv.Itoa(p.Quarter),
				fmt.Sprintf("%.2f%%", p.Value),
				bar(abs(p.Value), maxAbs),
			})
		}
		sb.WriteString(table([]string{"Quarter", "Growth", ""}, rows))
		_, err := io.WriteString(w, sb.String())
		return err
	}
}

// SkillsTable prints the ranked skills and a demand bar per scored skill,
// or the no-match message.
func SkillsTable(s types.SkillsResponse) func(io.Writer) error {
	return func(w io.Writer) error {
		var sb strings.Builder
		if s.Empty != "" {
			sb.WriteString(warnStyle.Render(s.Message))
			sb.WriteString("\n")
			_, err := io.WriteString(w, sb.String())
			return err
		}

		sb.WriteString(titleStyle.Render("High-demand skills for " + s.Industry))
		sb.WriteString("\n")
		rows := make([][]string, 0, len(s.Skills))
		for _, k := range s.Skills {
			rows = append(rows, []string{k.Skill, k.DemandLevel, k.PeakPeriod, k.Details})
		}
		sb.WriteString(table([]string{"Skill", "Demand", "Peak period", "Details"}, rows))

		if len(s.Leaderboard) > 0 {
			sb.WriteString("\n")
			sb.WriteString(titleStyle.Render("Demand leaderboard"))
			sb.WriteString("\n")
			bars := make([][]string, 0, len(s.Leaderboard))
			for _, b := range s.Leaderboard {
				bars = append(bars, []string{b.Skill, bar(float64(b.Score), 3), strconv.Itoa(b.Score)})
			}
			sb.WriteString(table([]string{"Skill", "", "Score"}, bars))
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}
}

// IndustriesTable prints one industry per line.
func IndustriesTable(industries []string) func(io.Writer) error {
	return func(w io.Writer) error {
		rows := make([][]string, 0, len(industries))
		for i, name := range industries {
			rows = append(rows, []string{strconv.Itoa(i + 1), name})
		}
		_, err := io.WriteString(w, table([]string{"#", "Industry"}, rows))
		return err
	}
}

// ReportTable prints the probe statistics and any failures.
func ReportTable(r Report) func(io.Writer) error {
	return func(w io.Writer) error {
		var sb strings.Builder
		status := promisingStyle.Render("PASS")
		if !r.Passed() {
			status = warnStyle.Render("FAIL")
		}
		sb.WriteString(titleStyle.Render("Probe "+r.RunID) + " " + status + "\n")
		sb.WriteString(table([]string{"Check", "Count"}, [][]string{
			{"industries", strconv.Itoa(r.Industries)},
			{"predictions", strconv.Itoa(r.Predictions)},
			{"promising", strconv.Itoa(r.Promising)},
			{"skill lists", strconv.Itoa(r.SkillLists)},
			{"failures", strconv.Itoa(len(r.Failures))},
			{"duration", r.Duration.String()},
		}))
		for _, f := range r.Failures {
			sb.WriteString(warnStyle.Render("  - "+f) + "\n")
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}
}

func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	// Padding(0, 1) adds one column each side.
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = headerStyle.Width(widths[i]).Render(h)
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	sb.WriteString("\n")
	total := 0
	for _, w := range widths {
		total += w
	}
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = cellStyle.Width(widths[i]).Render(cell)
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		sb.WriteString("\n")
	}
	return sb.String()
}

func bar(v, full float64) string {
	if full <= 0 {
		return ""
	}
	n := int(v / full * barWidth)
	return barStyle.Render(strings.Repeat("█", n))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
