package httpadapter

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleSeasonalChart renders the latest seasonal averages as an HTML bar chart.
func (s *Server) handleSeasonalChart(w http.ResponseWriter, _ *http.Request) {
	out, ok := s.source.Latest()
	if !ok {
		http.Error(w, "no completed run yet", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := renderSeasonalChart(&buf, out); err != nil {
		s.logger.Error("render seasonal chart failed", "error", err)
		http.Error(w, fmt.Sprintf("render error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func renderSeasonalChart(buf *bytes.Buffer, out domain.RunOutput) error {
	x := make([]string, 0, len(out.Results.Seasonal))
	y := make([]opts.BarData, 0, len(out.Results.Seasonal))
	for _, a := range out.Results.Seasonal {
		x = append(x, string(a.Season))
		y = append(y, seasonalBar(a.Mean))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Seasonal averages", Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Average temperature by season",
			Subtitle: fmt.Sprintf("run=%s generated=%s", out.Run.ID, out.Run.GeneratedAt.Format(time.RFC3339)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "°C"}),
	)
	bar.SetXAxis(x).
		AddSeries("mean", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)
	return page.Render(buf)
}

// seasonalBar rounds to the report precision. Undefined means render as "-",
// which echarts draws as an empty bar.
func seasonalBar(mean float64) opts.BarData {
	if math.IsNaN(mean) {
		return opts.BarData{Value: "-"}
	}
	return opts.BarData{Value: math.Round(mean*100) / 100}
}
