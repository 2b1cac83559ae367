// Package charts renders review statistics as go-echarts snippets that can be
// embedded in report markup.
package charts

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	// EChartsScript is the script every embedded chart needs on the page. It
	// is page-relative and resolves against the bundled assets.
	EChartsScript = "js/vendor/echarts.min.js"

	// EChartsCDN is where EChartsScript is fetched from for the bundle.
	EChartsCDN = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
)

// Config holds configuration for charts.
type Config struct {
	Title  string
	Width  string // e.g. "100%"
	Height string // e.g. "280px"
	Theme  string
	Colors []string
}

// DefaultConfig returns default chart configuration.
func DefaultConfig() Config {
	return Config{
		Width:  "100%",
		Height: "280px",
		Theme:  "light",
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// Snippet is a chart container element followed by the script that draws it.
type Snippet struct {
	ID   string
	HTML string
}

// jsoner is implemented by every go-echarts chart.
type jsoner interface {
	JSON() map[string]interface{}
}

func globalOpts(id string, cfg Config) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Width:   cfg.Width,
			Height:  cfg.Height,
			Theme:   cfg.Theme,
		}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithColorsOpts(opts.Colors(cfg.Colors)),
	}
}

func labels(points []DataPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Label
	}
	return out
}

// Bar renders points as a single-series bar chart.
func Bar(id, series string, points []DataPoint, cfg Config) (Snippet, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(id, cfg)...)

	data := make([]opts.BarData, len(points))
	for i, p := range points {
		data[i] = opts.BarData{Value: p.Value}
	}
	bar.SetXAxis(labels(points)).
		AddSeries(series, data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	bar.Validate()

	return embed(id, bar, cfg)
}

// Line renders points as a single-series smoothed line chart.
func Line(id, series string, points []DataPoint, cfg Config) (Snippet, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(id, cfg)...)

	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: p.Value}
	}
	line.SetXAxis(labels(points)).
		AddSeries(series, data).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	line.Validate()

	return embed(id, line, cfg)
}

func embed(id string, c jsoner, cfg Config) (Snippet, error) {
	option, err := json.Marshal(c.JSON())
	if err != nil {
		return Snippet{}, fmt.Errorf("failed to encode chart %s: %w", id, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="chart" id="%s" style="width:%s;height:%s;"></div>`,
		html.EscapeString(id), html.EscapeString(cfg.Width), html.EscapeString(cfg.Height))
	b.WriteString("\n<script>\n")
	fmt.Fprintf(&b, "echarts.init(document.getElementById(%q), %q).setOption(%s);\n", id, cfg.Theme, option)
	b.WriteString("</script>")

	return Snippet{ID: id, HTML: b.String()}, nil
}
