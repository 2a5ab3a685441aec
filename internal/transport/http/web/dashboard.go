package webhttp

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"tradify/internal/analytics"
	"tradify/internal/currency"
	"tradify/internal/logger"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorBull          = "#34d399"
	colorBear          = "#f87171"
	colorEquity        = "#3b82f6"

	chartWidthPx  = 1200
	chartHeightPx = 420
)

// handleDashboard renders the analytics dashboard as a self-contained HTML
// page: equity curve plus per-asset P&L for the signed-in user.
func (r *Router) handleDashboard(c *gin.Context) {
	user := currentUser(c)
	summary, err := r.journal.Summary(c.Request.Context(), user.ID)
	if err != nil {
		logger.Errorf("[dashboard] summary failed ip=%s err=%v", c.ClientIP(), err)
		c.String(http.StatusInternalServerError, "loading analytics failed")
		return
	}
	code, rate := r.displayConversion(c)
	if rate != 1 {
		summary = currency.ConvertSummary(summary, rate)
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = fmt.Sprintf("Tradify — %s", user.DisplayName)
	page.AddCharts(
		buildEquityCurveChart(summary, code),
		buildAssetPnlChart(summary, code),
	)

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := page.Render(c.Writer); err != nil {
		logger.Errorf("[dashboard] render failed: %v", err)
	}
}

func chartInit() opts.Initialization {
	return opts.Initialization{
		Theme:           types.ThemeWesteros,
		Width:           fmt.Sprintf("%dpx", chartWidthPx),
		Height:          fmt.Sprintf("%dpx", chartHeightPx),
		BackgroundColor: colorBackground,
	}
}

func buildEquityCurveChart(summary analytics.Summary, currencyCode string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{
			Title:         "Equity Curve",
			Subtitle:      fmt.Sprintf("Cumulative realized P&L (%s)", currencyCode),
			Left:          "left",
			Top:           "10",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
		}),
	)
	xAxis := make([]string, len(summary.EquityCurve))
	data := make([]opts.LineData, len(summary.EquityCurve))
	for i, p := range summary.EquityCurve {
		xAxis[i] = p.Date.UTC().Format(dateLayout)
		data[i] = opts.LineData{Value: p.Equity}
	}
	line.SetXAxis(xAxis)
	line.AddSeries("Equity", data,
		charts.WithLineStyleOpts(opts.LineStyle{Color: colorEquity, Width: 2}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), Smooth: opts.Bool(true)}),
	)
	return line
}

func buildAssetPnlChart(summary analytics.Summary, currencyCode string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(chartInit()),
		charts.WithTitleOpts(opts.Title{
			Title:         "P&L per Asset",
			Subtitle:      fmt.Sprintf("Realized P&L by ticker (%s)", currencyCode),
			Left:          "left",
			Top:           "10",
			TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 18},
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.15)}},
		}),
	)
	xAxis := make([]string, len(summary.PnlPerAsset))
	data := make([]opts.BarData, len(summary.PnlPerAsset))
	for i, a := range summary.PnlPerAsset {
		xAxis[i] = a.Ticker
		color := colorBear
		if a.Pnl >= 0 {
			color = colorBull
		}
		data[i] = opts.BarData{
			Value:     a.Pnl,
			ItemStyle: &opts.ItemStyle{Color: color, Opacity: opts.Float(0.8)},
		}
	}
	bar.SetXAxis(xAxis)
	bar.AddSeries("P&L", data)
	return bar
}
