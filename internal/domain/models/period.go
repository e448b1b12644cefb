package models

import "strings"

// Period is a history range understood by the data source.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
)

var periodLabels = map[Period]string{
	Period1Mo: "1 Month",
	Period3Mo: "3 Months",
	Period6Mo: "6 Months",
	Period1Y:  "1 Year",
	Period2Y:  "2 Years",
	Period5Y:  "5 Years",
}

// Periods lists the selectable periods in display order.
func Periods() []Period {
	return []Period{Period1Mo, Period3Mo, Period6Mo, Period1Y, Period2Y, Period5Y}
}

// DefaultPeriod returns the default period.
func DefaultPeriod() Period { return Period1Y }

// Label returns the human label, e.g. "3 Months".
func (p Period) Label() string { return periodLabels[p] }

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	_, ok := periodLabels[p]
	return ok
}

// ParsePeriod accepts either a code ("6mo") or a label ("6 Months").
func ParsePeriod(s string) (Period, bool) {
	s = strings.TrimSpace(s)
	if p := Period(strings.ToLower(s)); p.Valid() {
		return p, true
	}
	for p, label := range periodLabels {
		if strings.EqualFold(label, s) {
			return p, true
		}
	}
	return "", false
}

// NormalizePeriod converts raw input to a valid period (or the default).
func NormalizePeriod(s string) Period {
	if p, ok := ParsePeriod(s); ok {
		return p
	}
	return DefaultPeriod()
}

// ChartStyle selects how the price chart is drawn. It does not affect the data.
type ChartStyle string

const (
	ChartCandlestick ChartStyle = "candlestick"
	ChartLine        ChartStyle = "line"
)

// NormalizeChartStyle converts raw input to a valid style (or candlestick).
func NormalizeChartStyle(s string) ChartStyle {
	if ChartStyle(strings.ToLower(strings.TrimSpace(s))) == ChartLine {
		return ChartLine
	}
	return ChartCandlestick
}
