package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"StockDash/internal/domain/models"
	"StockDash/pkg/logger"

	xhttp "StockDash/pkg/http"
)

type chartEnvelope struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		GmtOffset            int    `json:"gmtoffset"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
		Splits map[string]struct {
			Date        int64   `json:"date"`
			Numerator   float64 `json:"numerator"`
			Denominator float64 `json:"denominator"`
		} `json:"splits"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// History returns daily bars for period in ascending date order. Dates are
// midnights in the exchange's timezone. A symbol without bars yields an empty
// slice and no error.
func (c *Client) History(ctx context.Context, symbol string, period models.Period) ([]models.PriceRow, error) {
	body, status, err := c.get(ctx, symbolURL(c.opts.ChartURL, symbol), map[string][]string{
		"range":    {string(period)},
		"interval": {"1d"},
		"events":   {"div,split"},
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	var env chartEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo chart %s: %w", symbol, &xhttp.StatusError{Code: status, Body: body})
		}
		return nil, fmt.Errorf("yahoo chart %s: decode: %w", symbol, err)
	}
	if env.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", symbol, env.Chart.Error.Description)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, &xhttp.StatusError{Code: status, Body: body})
	}
	if len(env.Chart.Result) == 0 {
		return []models.PriceRow{}, nil
	}

	rows := buildRows(env.Chart.Result[0])
	c.log.Debug("history fetched",
		logger.String("symbol", symbol),
		logger.String("period", string(period)),
		logger.Int("rows", len(rows)),
	)
	return rows, nil
}

func exchangeLocation(r chartResult) *time.Location {
	if r.Meta.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(r.Meta.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	return time.FixedZone("", r.Meta.GmtOffset)
}

func dayOf(ts int64, loc *time.Location) time.Time {
	t := time.Unix(ts, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func buildRows(r chartResult) []models.PriceRow {
	if len(r.Indicators.Quote) == 0 || len(r.Timestamp) == 0 {
		return []models.PriceRow{}
	}
	loc := exchangeLocation(r)
	q := r.Indicators.Quote[0]

	dividends := make(map[time.Time]float64)
	for _, d := range r.Events.Dividends {
		dividends[dayOf(d.Date, loc)] += d.Amount
	}
	splits := make(map[time.Time]float64)
	for _, s := range r.Events.Splits {
		if s.Denominator != 0 {
			splits[dayOf(s.Date, loc)] = s.Numerator / s.Denominator
		}
	}

	byDay := make(map[time.Time]models.PriceRow, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, h, l, cl := at(q.Open, i), at(q.High, i), at(q.Low, i), at(q.Close, i)
		// holidays and halted sessions come back with null prices
		if o == nil || cl == nil {
			continue
		}
		day := dayOf(ts, loc)
		row := models.PriceRow{
			Date:        day,
			Open:        *o,
			High:        orElse(h, max(*o, *cl)),
			Low:         orElse(l, min(*o, *cl)),
			Close:       *cl,
			Dividends:   dividends[day],
			StockSplits: splits[day],
		}
		if v := at(q.Volume, i); v != nil {
			row.Volume = int64(*v)
		}
		// the intraday bar of the current session repeats the last date; keep the later one
		byDay[day] = row
	}

	rows := make([]models.PriceRow, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

func at(xs []*float64, i int) *float64 {
	if i < len(xs) {
		return xs[i]
	}
	return nil
}

func orElse(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
