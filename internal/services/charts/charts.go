// Package charts renders the price and volume charts with go-echarts.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"StockDash/internal/domain/models"
)

const (
	ColorUp   = "#00D4AA"
	ColorDown = "#FF4B4B"

	colorBackground = "#0E1117"
	colorText       = "#FAFAFA"
	colorTextMuted  = "#9ca3af"

	chartWidthPx   = 1200
	priceHeightPx  = 500
	volumeHeightPx = 300
)

// Input is what a chart page needs from an analysis.
type Input struct {
	Symbol     string
	Style      models.ChartStyle
	Series     models.NormalizedSeries
	Directions []models.Direction
}

// DirectionColor maps a bar direction to its fill colour.
func DirectionColor(d models.Direction) string {
	if d == models.DirectionDown {
		return ColorDown
	}
	return ColorUp
}

// RenderHTML returns a standalone HTML page with the price chart followed by
// the volume chart.
func RenderHTML(in Input) ([]byte, error) {
	page, err := BuildPage(in)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildPage assembles both charts. It fails on an empty series or when
// directions do not line up with the rows.
func BuildPage(in Input) (*components.Page, error) {
	if len(in.Series) == 0 {
		return nil, errors.New("no rows to chart")
	}
	if len(in.Directions) != len(in.Series) {
		return nil, fmt.Errorf("have %d directions for %d rows", len(in.Directions), len(in.Series))
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s - Stock Analysis Dashboard", in.Symbol)
	page.SetLayout(components.PageFlexLayout)

	xAxis := dates(in.Series)
	var price components.Charter
	if in.Style == models.ChartLine {
		price = buildLine(in.Symbol, xAxis, in.Series)
	} else {
		price = buildKline(in.Symbol, xAxis, in.Series)
	}
	page.AddCharts(price, buildVolume(in.Symbol, xAxis, in.Series, in.Directions))
	return page, nil
}

func initOpts(height int) opts.Initialization {
	return opts.Initialization{
		Theme:           types.ThemeWesteros,
		Width:           fmt.Sprintf("%dpx", chartWidthPx),
		Height:          fmt.Sprintf("%dpx", height),
		BackgroundColor: colorBackground,
	}
}

func priceGlobals(symbol string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(initOpts(priceHeightPx)),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("%s Stock Price", symbol),
			Left:       "left",
			TitleStyle: &opts.TextStyle{Color: colorText, FontSize: 18},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: colorTextMuted},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Price ($)",
			Scale:     opts.Bool(true),
			AxisLabel: &opts.AxisLabel{Color: colorTextMuted},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextMuted, Opacity: opts.Float(0.2)}},
		}),
	}
}

func buildKline(symbol string, xAxis []string, s models.NormalizedSeries) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(priceGlobals(symbol)...)
	kline.SetSeriesOptions(
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        ColorUp,
			Color0:       ColorDown,
			BorderColor:  ColorUp,
			BorderColor0: ColorDown,
		}),
	)

	data := make([]opts.KlineData, len(s))
	for i, r := range s {
		data[i] = opts.KlineData{Value: [4]float64{r.Open, r.Close, r.Low, r.High}}
	}
	kline.SetXAxis(xAxis)
	kline.AddSeries(symbol, data)
	return kline
}

func buildLine(symbol string, xAxis []string, s models.NormalizedSeries) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(priceGlobals(symbol)...)

	data := make([]opts.LineData, len(s))
	for i, r := range s {
		data[i] = opts.LineData{Value: r.Close}
	}
	line.SetXAxis(xAxis)
	line.AddSeries(fmt.Sprintf("%s Close Price", symbol), data,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: ColorUp, Width: 2}),
	)
	return line
}

func buildVolume(symbol string, xAxis []string, s models.NormalizedSeries, dirs []models.Direction) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(volumeHeightPx)),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("%s Trading Volume", symbol),
			Left:       "left",
			TitleStyle: &opts.TextStyle{Color: colorText},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Date",
			AxisLabel: &opts.AxisLabel{Color: colorTextMuted},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "Volume",
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: colorTextMuted},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextMuted, Opacity: opts.Float(0.15)}},
		}),
	)

	vols := make([]opts.BarData, len(s))
	for i, r := range s {
		vols[i] = opts.BarData{
			Value:     r.Volume,
			ItemStyle: &opts.ItemStyle{Color: DirectionColor(dirs[i])},
		}
	}
	bar.SetXAxis(xAxis)
	bar.AddSeries("Volume", vols)
	return bar
}

func dates(s models.NormalizedSeries) []string {
	x := make([]string, len(s))
	for i, r := range s {
		x[i] = r.Date
	}
	return x
}
