package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoSeasonalData is returned when every seasonal average is undefined.
var ErrNoSeasonalData = errors.New("no defined seasonal averages")

// ChartExporter renders the seasonal averages of a run as a bar chart image.
// The format follows the file extension (png, svg, pdf).
type ChartExporter struct {
	path string
}

// NewChartExporter creates a ChartExporter that saves to path.
func NewChartExporter(path string) *ChartExporter {
	return &ChartExporter{path: path}
}

func (e *ChartExporter) Name() string { return "chart" }

func (e *ChartExporter) Export(_ context.Context, out domain.RunOutput) error {
	var (
		names  []string
		values plotter.Values
	)
	for _, a := range out.Results.Seasonal {
		if math.IsNaN(a.Mean) {
			continue
		}
		names = append(names, string(a.Season))
		values = append(values, a.Mean)
	}
	if len(values) == 0 {
		return ErrNoSeasonalData
	}

	p := plot.New()
	p.Title.Text = "Average temperature by season"
	p.Y.Label.Text = "°C"

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalX(names...)

	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, e.path); err != nil {
		return fmt.Errorf("save chart %s: %w", e.path, err)
	}
	return nil
}
