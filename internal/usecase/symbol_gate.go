package usecase

import (
	"context"
	"strings"

	"StockDash/internal/domain/models"
	"StockDash/internal/services/keymetrics"
	"StockDash/pkg/logger"
)

// NormalizeSymbol trims and upper-cases user input.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidSymbol reports whether the source knows a priced security under
// symbol. Lookup failures count as invalid and are not returned.
func (uc *DashboardUseCase) IsValidSymbol(ctx context.Context, symbol string) bool {
	_, ok := uc.gate(ctx, NormalizeSymbol(symbol))
	return ok
}

// gate returns the quote attributes that made the symbol pass.
func (uc *DashboardUseCase) gate(ctx context.Context, symbol string) (models.QuoteAttributes, bool) {
	if symbol == "" {
		return nil, false
	}
	attrs, err := uc.md.Quote(ctx, symbol)
	if err != nil {
		uc.log.Debug("symbol lookup failed", logger.String("symbol", symbol), logger.Error(err))
		return nil, false
	}
	for _, k := range keymetrics.PriceKeys {
		if _, ok := attrs.Float(k); ok {
			return attrs, true
		}
	}
	return nil, false
}
