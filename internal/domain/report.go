package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ReportKind identifies one of the three text reports.
type ReportKind string

const (
	ReportSeasonal  ReportKind = "seasonal"
	ReportRange     ReportKind = "range"
	ReportStability ReportKind = "stability"
)

// ReportKinds returns every report kind in output order.
func ReportKinds() []ReportKind {
	return []ReportKind{ReportSeasonal, ReportRange, ReportStability}
}

// Report is a rendered text report.
type Report struct {
	Kind  ReportKind
	Lines []string
}

// Body joins the lines with LF and a trailing newline. An empty report has an empty body.
func (r Report) Body() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// RunInfo identifies a pipeline run.
type RunInfo struct {
	ID          string
	GeneratedAt time.Time
}

// RunOutput is everything a successful run produced.
type RunOutput struct {
	Run          RunInfo
	Files        int
	Records      int
	Observations int
	Results      Results
	Reports      []Report
}

// Report returns the report of the given kind.
func (o RunOutput) Report(kind ReportKind) (Report, bool) {
	for _, r := range o.Reports {
		if r.Kind == kind {
			return r, true
		}
	}
	return Report{}, false
}

// FormatTemperature renders a value with two decimals and a degree Celsius
// suffix, or "N/A" for NaN.
func FormatTemperature(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f°C", v)
}

// BuildReports renders the three text reports from the aggregates.
func BuildReports(res Results) []Report {
	return []Report{
		SeasonalReport(res.Seasonal),
		RangeReport(res.LargestRange),
		StabilityReport(res.Stability),
	}
}

// SeasonalReport renders "<Season>: <value>" lines.
func SeasonalReport(avgs []SeasonalAverage) Report {
	lines := make([]string, 0, len(avgs))
	for _, a := range avgs {
		lines = append(lines, fmt.Sprintf("%s: %s", a.Season, FormatTemperature(a.Mean)))
	}
	return Report{Kind: ReportSeasonal, Lines: lines}
}

// RangeReport renders "<Station>: Range <r> (Max: <max>, Min: <min>)" lines.
func RangeReport(ranges []StationRange) Report {
	lines := make([]string, 0, len(ranges))
	for _, r := range ranges {
		lines = append(lines, fmt.Sprintf("%s: Range %s (Max: %s, Min: %s)",
			r.Station, FormatTemperature(r.Range), FormatTemperature(r.Max), FormatTemperature(r.Min)))
	}
	return Report{Kind: ReportRange, Lines: lines}
}

// StabilityReport renders the most stable stations followed by the most variable ones.
func StabilityReport(ext StabilityExtremes) Report {
	lines := make([]string, 0, len(ext.MostStable)+len(ext.MostVariable))
	for _, s := range ext.MostStable {
		lines = append(lines, fmt.Sprintf("Most Stable: %s: StdDev %s", s.Station, FormatTemperature(s.StdDev)))
	}
	for _, s := range ext.MostVariable {
		lines = append(lines, fmt.Sprintf("Most Variable: %s: StdDev %s", s.Station, FormatTemperature(s.StdDev)))
	}
	return Report{Kind: ReportStability, Lines: lines}
}
