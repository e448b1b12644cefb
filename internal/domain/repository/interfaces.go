package repository

import (
	"context"

	"StockDash/internal/domain/models"
)

// MarketData is the external market-data source. Every call is a single
// blocking attempt; implementations do not retry.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (models.QuoteAttributes, error)
	History(ctx context.Context, symbol string, period models.Period) ([]models.PriceRow, error)
	Financials(ctx context.Context, symbol string) (*models.Financials, error)
}

type Metrics interface {
	RecordAnalysis(outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
