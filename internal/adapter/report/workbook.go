package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSeasonal  = "Seasonal"
	sheetRange     = "Range"
	sheetStability = "Stability"
	sheetRun       = "Run"
)

// WorkbookExporter writes the aggregate results of a run to an xlsx file
// with one sheet per report.
type WorkbookExporter struct {
	path string
}

// NewWorkbookExporter creates a WorkbookExporter that saves to path.
func NewWorkbookExporter(path string) *WorkbookExporter {
	return &WorkbookExporter{path: path}
}

func (e *WorkbookExporter) Name() string { return "workbook" }

func (e *WorkbookExporter) Export(_ context.Context, out domain.RunOutput) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSeasonal); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{sheetRange, sheetStability, sheetRun} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	seasonal := [][]any{{"Season", "Mean (°C)"}}
	for _, a := range out.Results.Seasonal {
		seasonal = append(seasonal, []any{string(a.Season), cellValue(a.Mean)})
	}

	ranges := [][]any{{"Station", "Min (°C)", "Max (°C)", "Range (°C)"}}
	for _, r := range out.Results.LargestRange {
		ranges = append(ranges, []any{r.Station, r.Min, r.Max, r.Range})
	}

	stability := [][]any{{"Category", "Station", "StdDev (°C)"}}
	for _, s := range out.Results.Stability.MostStable {
		stability = append(stability, []any{"Most Stable", s.Station, s.StdDev})
	}
	for _, s := range out.Results.Stability.MostVariable {
		stability = append(stability, []any{"Most Variable", s.Station, s.StdDev})
	}

	run := [][]any{
		{"Run ID", out.Run.ID},
		{"Generated", out.Run.GeneratedAt},
		{"Files", out.Files},
		{"Records", out.Records},
		{"Observations", out.Observations},
	}

	for sheet, rows := range map[string][][]any{
		sheetSeasonal:  seasonal,
		sheetRange:     ranges,
		sheetStability: stability,
		sheetRun:       run,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create workbook dir: %w", err)
	}
	if err := f.SaveAs(e.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", e.path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cellValue rounds to report precision; undefined values become "N/A".
func cellValue(v float64) any {
	if math.IsNaN(v) {
		return "N/A"
	}
	return math.Round(v*100) / 100
}
