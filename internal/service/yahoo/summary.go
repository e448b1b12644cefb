package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"StockDash/internal/domain/models"
	"StockDash/pkg/logger"

	xhttp "StockDash/pkg/http"
)

// quoteModules are flattened in this order; the first module to carry a key wins.
var quoteModules = []string{
	"financialData",
	"price",
	"summaryDetail",
	"defaultKeyStatistics",
	"assetProfile",
}

var statementModules = []struct {
	module string
	list   string
}{
	{"incomeStatementHistory", "incomeStatementHistory"},
	{"balanceSheetHistory", "balanceSheetStatements"},
	{"cashflowStatementHistory", "cashflowStatements"},
}

// summary fetches the quoteSummary result object for the given modules.
func (c *Client) summary(ctx context.Context, symbol string, modules []string) (gjson.Result, error) {
	query := map[string][]string{
		"modules":   {strings.Join(modules, ",")},
		"formatted": {"false"},
	}
	if crumb := c.ensureCrumb(ctx); crumb != "" {
		query["crumb"] = []string{crumb}
	}

	body, status, err := c.get(ctx, symbolURL(c.opts.SummaryURL, symbol), query)
	if err != nil {
		return gjson.Result{}, err
	}
	if status == http.StatusUnauthorized {
		c.dropCrumb()
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &xhttp.StatusError{Code: status, Body: body}
	}

	doc := gjson.ParseBytes(body)
	if e := doc.Get("quoteSummary.error"); e.Exists() && e.Type != gjson.Null {
		desc := e.Get("description").String()
		if desc == "" {
			desc = e.Raw
		}
		return gjson.Result{}, fmt.Errorf("%s", desc)
	}
	if e := doc.Get("finance.error"); e.Exists() && e.Type != gjson.Null {
		return gjson.Result{}, fmt.Errorf("%s", e.Get("description").String())
	}
	if status != http.StatusOK {
		return gjson.Result{}, &xhttp.StatusError{Code: status, Body: body}
	}

	res := doc.Get("quoteSummary.result.0")
	if !res.Exists() || !res.IsObject() {
		return gjson.Result{}, ErrNoResult
	}
	return res, nil
}

// Quote returns the flattened quote attributes for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (models.QuoteAttributes, error) {
	res, err := c.summary(ctx, symbol, quoteModules)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}

	attrs := make(models.QuoteAttributes)
	for _, m := range quoteModules {
		res.Get(m).ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if _, seen := attrs[k]; seen {
				return true
			}
			if v, ok := scalar(value); ok {
				attrs[k] = v
			}
			return true
		})
	}

	c.log.Debug("quote fetched", logger.String("symbol", symbol), logger.Int("keys", len(attrs)))
	return attrs, nil
}

// scalar unwraps Yahoo's {"raw":..,"fmt":..} envelopes and plain values.
// Objects without a raw number, arrays and nulls are skipped.
func scalar(v gjson.Result) (any, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		return v.String(), true
	case gjson.True, gjson.False:
		return v.Bool(), true
	case gjson.JSON:
		if !v.IsObject() {
			return nil, false
		}
		if raw := v.Get("raw"); raw.Type == gjson.Number {
			return raw.Float(), true
		}
	}
	return nil, false
}

// Financials returns the annual income, balance sheet and cash flow statements.
func (c *Client) Financials(ctx context.Context, symbol string) (*models.Financials, error) {
	modules := make([]string, 0, len(statementModules))
	for _, m := range statementModules {
		modules = append(modules, m.module)
	}

	res, err := c.summary(ctx, symbol, modules)
	if err != nil {
		return nil, fmt.Errorf("yahoo financials %s: %w", symbol, err)
	}

	lists := make([][]models.StatementRow, len(statementModules))
	for i, m := range statementModules {
		lists[i] = statements(res.Get(m.module + "." + m.list))
	}
	return &models.Financials{
		Income:   lists[0],
		Balance:  lists[1],
		Cashflow: lists[2],
	}, nil
}

func statements(list gjson.Result) []models.StatementRow {
	out := []models.StatementRow{}
	for _, st := range list.Array() {
		row := models.StatementRow{Values: make(map[string]float64)}
		st.ForEach(func(key, value gjson.Result) bool {
			switch k := key.String(); k {
			case "endDate":
				row.EndDate = endDate(value)
			case "maxAge":
			default:
				if v, ok := scalar(value); ok {
					if f, isNum := v.(float64); isNum {
						row.Values[k] = f
					}
				}
			}
			return true
		})
		out = append(out, row)
	}
	return out
}

func endDate(v gjson.Result) string {
	if f := v.Get("fmt"); f.Type == gjson.String {
		return f.String()
	}
	var ts int64
	switch {
	case v.Type == gjson.Number:
		ts = v.Int()
	case v.Get("raw").Type == gjson.Number:
		ts = v.Get("raw").Int()
	default:
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}
