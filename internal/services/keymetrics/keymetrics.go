// Package keymetrics resolves the fixed catalogue of dashboard metric tiles
// from sparse quote attributes.
package keymetrics

import (
	"strconv"

	"StockDash/internal/domain/models"
	"StockDash/internal/services/format"
)

// Metric keys, in display order.
const (
	KeyCurrentPrice  = "current_price"
	KeyMarketCap     = "market_cap"
	KeyDayChange     = "day_change"
	KeyVolume        = "volume"
	KeyPERatio       = "pe_ratio"
	KeyDayHigh       = "day_high"
	KeyDividendYield = "dividend_yield"
	KeyDayLow        = "day_low"
)

// PriceKeys are the attributes that identify a live, priced security.
var PriceKeys = []string{"regularMarketPrice", "currentPrice"}

type definition struct {
	key     string
	name    string
	resolve func(models.QuoteAttributes) (*float64, string)
}

var catalog = []definition{
	{KeyCurrentPrice, "Current Price", chain(format.Dollar, "currentPrice", "regularMarketPrice")},
	{KeyMarketCap, "Market Cap", chain(format.CurrencyScaled, "marketCap")},
	{KeyDayChange, "Day Change", dayChange},
	{KeyVolume, "Volume", chain(format.Count, "regularMarketVolume", "volume")},
	{KeyPERatio, "P/E Ratio", chain(format.Plain, "trailingPE")},
	{KeyDayHigh, "Day High", chain(format.Dollar, "dayHigh")},
	{KeyDividendYield, "Dividend Yield", chain(format.Percent, "dividendYield")},
	{KeyDayLow, "Day Low", chain(format.Dollar, "dayLow")},
}

// Resolve returns every catalogue metric in a fixed order. Missing data
// yields "N/A"; it never fails.
func Resolve(attrs models.QuoteAttributes) []models.ResolvedMetric {
	out := make([]models.ResolvedMetric, 0, len(catalog))
	for _, d := range catalog {
		raw, display := d.resolve(attrs)
		out = append(out, models.ResolvedMetric{
			Key:     d.key,
			Name:    d.name,
			Raw:     raw,
			Display: display,
		})
	}
	return out
}

// ByKey finds a resolved metric by its key.
func ByKey(metrics []models.ResolvedMetric, key string) (models.ResolvedMetric, bool) {
	for _, m := range metrics {
		if m.Key == key {
			return m, true
		}
	}
	return models.ResolvedMetric{}, false
}

// First returns the value of the first present key.
func First(attrs models.QuoteAttributes, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := attrs.Float(k); ok {
			return v, true
		}
	}
	return 0, false
}

func chain(render func(float64) string, keys ...string) func(models.QuoteAttributes) (*float64, string) {
	return func(attrs models.QuoteAttributes) (*float64, string) {
		v, ok := First(attrs, keys...)
		if !ok {
			return nil, format.NotAvailable
		}
		return &v, render(v)
	}
}

// dayChange needs both components; a lone value is not shown.
func dayChange(attrs models.QuoteAttributes) (*float64, string) {
	change, ok := attrs.Float("regularMarketChange")
	if !ok {
		return nil, format.NotAvailable
	}
	pct, ok := attrs.Float("regularMarketChangePercent")
	if !ok {
		return nil, format.NotAvailable
	}
	return &change, format.Dollar(change) + " (" + format.Percent(pct) + ")"
}

// Profile extracts the descriptive company fields. symbol is used when the
// long name is missing.
func Profile(attrs models.QuoteAttributes, symbol string) models.CompanyProfile {
	p := models.CompanyProfile{
		Name:         stringOr(attrs, "longName", symbol),
		Sector:       stringOr(attrs, "sector", format.NotAvailable),
		Industry:     stringOr(attrs, "industry", format.NotAvailable),
		Country:      stringOr(attrs, "country", format.NotAvailable),
		Website:      stringOr(attrs, "website", format.NotAvailable),
		Employees:    format.NotAvailable,
		FiftyTwoHigh: format.NotAvailable,
		FiftyTwoLow:  format.NotAvailable,
		Beta:         format.NotAvailable,
	}
	// zero counts as missing for these fields
	if v, ok := attrs.Float("fullTimeEmployees"); ok && v != 0 {
		p.Employees = format.Count(v)
	}
	if v, ok := attrs.Float("fiftyTwoWeekHigh"); ok && v != 0 {
		p.FiftyTwoHigh = "$" + strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v, ok := attrs.Float("fiftyTwoWeekLow"); ok && v != 0 {
		p.FiftyTwoLow = "$" + strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v, ok := attrs.Float("beta"); ok && v != 0 {
		p.Beta = format.Plain(v)
	}
	if s, ok := attrs.String("longBusinessSummary"); ok {
		p.Summary = s
	}
	return p
}

func stringOr(attrs models.QuoteAttributes, key, def string) string {
	if s, ok := attrs.String(key); ok {
		return s
	}
	return def
}
