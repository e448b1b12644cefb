package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"StockDash/internal/domain/models"
	"StockDash/internal/domain/repository"
	"StockDash/internal/service/cache"
	"StockDash/pkg/logger"
)

// CachedMarketData memoizes a MarketData source for a bounded time and
// collapses concurrent fetches of the same key. Source errors are never cached.
type CachedMarketData struct {
	next  repository.MarketData
	cache cache.BytesCache
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

// NewCachedMarketData wraps next. A nil cache returns next unchanged.
func NewCachedMarketData(next repository.MarketData, c cache.BytesCache, ttl time.Duration, log *logger.Logger) repository.MarketData {
	if c == nil {
		return next
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedMarketData{next: next, cache: c, ttl: ttl, log: log}
}

func (r *CachedMarketData) Quote(ctx context.Context, symbol string) (models.QuoteAttributes, error) {
	return load(ctx, r, "quote:"+strings.ToUpper(symbol), func(ctx context.Context) (models.QuoteAttributes, error) {
		return r.next.Quote(ctx, symbol)
	})
}

func (r *CachedMarketData) History(ctx context.Context, symbol string, period models.Period) ([]models.PriceRow, error) {
	key := "history:" + strings.ToUpper(symbol) + ":" + string(period)
	return load(ctx, r, key, func(ctx context.Context) ([]models.PriceRow, error) {
		return r.next.History(ctx, symbol, period)
	})
}

func (r *CachedMarketData) Financials(ctx context.Context, symbol string) (*models.Financials, error) {
	return load(ctx, r, "financials:"+strings.ToUpper(symbol), func(ctx context.Context) (*models.Financials, error) {
		return r.next.Financials(ctx, symbol)
	})
}

func load[T any](ctx context.Context, r *CachedMarketData, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	b, ok, err := r.cache.GetBytes(ctx, key)
	if err != nil {
		r.log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
	}
	if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		r.log.Warn("cache entry undecodable", logger.String("key", key))
	}

	// the shared fetch must not die with whichever caller started it
	ch := r.group.DoChan(key, func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		val, err := fetch(fctx)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(val); err == nil {
			if err := r.cache.SetBytes(fctx, key, b, r.ttl); err != nil {
				r.log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
			}
		}
		return val, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
