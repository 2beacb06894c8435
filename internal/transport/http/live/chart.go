package livehttp

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"presage/internal/logger"
	"presage/internal/session"
)

// renderPriceChart draws the price history window as a line chart.
func renderPriceChart(w io.Writer, snap session.Snapshot) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			PageTitle: snap.Symbol + " price",
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    snap.Symbol,
			Subtitle: fmt.Sprintf("%d samples, snapshot v%d", len(snap.Prices), snap.Version),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xs := make([]string, len(snap.Prices))
	ys := make([]opts.LineData, len(snap.Prices))
	for i, tick := range snap.Prices {
		xs[i] = tick.Timestamp.Format("15:04:05")
		ys[i] = opts.LineData{Value: tick.Close}
	}
	line.SetXAxis(xs).AddSeries("close", ys,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)

	if err := line.Render(w); err != nil {
		logger.Warnf("chart render failed: %v", err)
	}
}
