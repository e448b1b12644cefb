// Package series prepares historical price bars for charts, tables and export.
package series

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"StockDash/internal/domain/models"
)

// DateLayout is the fixed rendering of a row's date.
const DateLayout = "2006-01-02"

// PricePrecision is the number of decimals kept for open/high/low/close.
const PricePrecision = 2

// ErrEmptySeries means the source returned no bars for the symbol.
var ErrEmptySeries = errors.New("no historical data available for this symbol")

// Normalize rounds prices to PricePrecision and renders dates. Row order and
// the remaining fields are kept as is.
func Normalize(rows []models.PriceRow) (models.NormalizedSeries, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySeries
	}
	out := make(models.NormalizedSeries, len(rows))
	for i, r := range rows {
		out[i] = models.NormalizedRow{
			Date:        r.Date.Format(DateLayout),
			Open:        round(r.Open),
			High:        round(r.High),
			Low:         round(r.Low),
			Close:       round(r.Close),
			Volume:      r.Volume,
			Dividends:   r.Dividends,
			StockSplits: r.StockSplits,
		}
	}
	return out, nil
}

func round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(PricePrecision).InexactFloat64()
}

// Classify marks a bar "up" when it closed at or above its open.
func Classify(r models.NormalizedRow) models.Direction {
	if r.Close >= r.Open {
		return models.DirectionUp
	}
	return models.DirectionDown
}

// Directions classifies every row independently.
func Directions(s models.NormalizedSeries) []models.Direction {
	out := make([]models.Direction, len(s))
	for i, r := range s {
		out[i] = Classify(r)
	}
	return out
}

// ExportFilename builds "{SYMBOL}_historical_data_{period}.{ext}" where the
// period label is lower-cased with spaces replaced by underscores.
func ExportFilename(symbol, periodLabel, ext string) string {
	label := strings.ReplaceAll(strings.ToLower(periodLabel), " ", "_")
	return fmt.Sprintf("%s_historical_data_%s.%s", symbol, label, ext)
}
