package models

import "time"

// PriceRow is one daily OHLCV bar as returned by the data source.
type PriceRow struct {
	Date        time.Time `json:"date"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      int64     `json:"volume"`
	Dividends   float64   `json:"dividends"`
	StockSplits float64   `json:"stock_splits"`
}

// NormalizedRow is a PriceRow ready for display and export.
type NormalizedRow struct {
	Date        string  `json:"date" parquet:"date"`
	Open        float64 `json:"open" parquet:"open"`
	High        float64 `json:"high" parquet:"high"`
	Low         float64 `json:"low" parquet:"low"`
	Close       float64 `json:"close" parquet:"close"`
	Volume      int64   `json:"volume" parquet:"volume"`
	Dividends   float64 `json:"dividends" parquet:"dividends"`
	StockSplits float64 `json:"stock_splits" parquet:"stock_splits"`
}

// NormalizedSeries is ordered by ascending date.
type NormalizedSeries []NormalizedRow

// Direction classifies a bar for two-colour rendering.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// StatementRow is one reporting period of a financial statement.
type StatementRow struct {
	EndDate string             `json:"end_date"`
	Values  map[string]float64 `json:"values"`
}

// Financials are passed through to the presentation layer untouched.
type Financials struct {
	Income   []StatementRow `json:"income"`
	Balance  []StatementRow `json:"balance_sheet"`
	Cashflow []StatementRow `json:"cashflow"`
}
