package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/domain/models"
	xhttp "StockDash/pkg/http"
	"StockDash/pkg/logger"
)

const chartBody = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","gmtoffset":-18000,"exchangeTimezoneName":""},
  "timestamp":[1704205800,1704292200,1704378600,1704398400,1704465000],
  "events":{"dividends":{"1704292200":{"amount":0.24,"date":1704292200}},
            "splits":{"1704205800":{"date":1704205800,"numerator":4,"denominator":1}}},
  "indicators":{"quote":[{
    "open":[187.15,184.22,182.15,182.5,null],
    "high":[188.44,185.88,183.09,183.2,null],
    "low":[183.89,183.43,180.88,181.0,null],
    "close":[185.64,184.25,181.91,182.0,null],
    "volume":[82488700,58414500,71983600,1000,null]
  }]}
}],"error":null}}`

const summaryBody = `{"quoteSummary":{"result":[{
  "financialData":{"currentPrice":{"raw":189.3,"fmt":"189.30"},"totalCash":{}},
  "price":{"regularMarketPrice":{"raw":189.25,"fmt":"189.25"},"marketCap":{"raw":2900000000000,"fmt":"2.9T"},
           "longName":"Apple Inc.","regularMarketChange":{"raw":-1.2},"regularMarketChangePercent":{"raw":-0.0069}},
  "summaryDetail":{"marketCap":{"raw":1},"trailingPE":{},"dividendYield":{"raw":0.0044},"dayHigh":190.1,"tradeable":false},
  "assetProfile":{"sector":"Technology","fullTimeEmployees":164000,"companyOfficers":[{"name":"x"}],"website":null}
}],"error":null}}`

const financialsBody = `{"quoteSummary":{"result":[{
  "incomeStatementHistory":{"incomeStatementHistory":[
     {"maxAge":1,"endDate":{"raw":1696032000,"fmt":"2023-09-30"},"totalRevenue":{"raw":383285000000},"netIncome":{"raw":96995000000}},
     {"endDate":1664496000,"totalRevenue":394328000000}
  ]},
  "balanceSheetHistory":{"balanceSheetStatements":[{"endDate":{"raw":1696032000,"fmt":"2023-09-30"},"cash":{"raw":29965000000}}]},
  "cashflowStatementHistory":{"cashflowStatements":[]}
}],"error":null}}`

type fakeYahoo struct {
	mux        *http.ServeMux
	crumbCalls atomic.Int32
	lastCrumb  atomic.Value
}

func newFakeYahoo(t *testing.T) (*fakeYahoo, *httptest.Server) {
	t.Helper()
	f := &fakeYahoo{mux: http.NewServeMux()}
	f.mux.HandleFunc("/cookie", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session", Path: "/"})
		w.WriteHeader(http.StatusNotFound)
	})
	f.mux.HandleFunc("/crumb", func(w http.ResponseWriter, r *http.Request) {
		f.crumbCalls.Add(1)
		if _, err := r.Cookie("A3"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("abc123"))
	})
	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeYahoo) handle(path string, status int, body string) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		f.lastCrumb.Store(r.URL.Query().Get("crumb"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func newClient(srv *httptest.Server, handshake bool) *Client {
	opts := Options{
		ChartURL:   srv.URL + "/chart",
		SummaryURL: srv.URL + "/summary",
		Timeout:    5 * time.Second,
	}
	if handshake {
		opts.CookieURL = srv.URL + "/cookie"
		opts.CrumbURL = srv.URL + "/crumb"
	}
	return New(opts, logger.Nop())
}

func TestHistory(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/chart/AAPL", http.StatusOK, chartBody)

	rows, err := newClient(srv, false).History(context.Background(), "AAPL", models.Period1Y)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	dates := make([]string, len(rows))
	for i, r := range rows {
		dates[i] = r.Date.Format("2006-01-02")
	}
	assert.Equal(t, []string{"2024-01-02", "2024-01-03", "2024-01-04"}, dates)

	_, offset := rows[0].Date.Zone()
	assert.Equal(t, -18000, offset)
	assert.Equal(t, 0, rows[0].Date.Hour())

	assert.Equal(t, 4.0, rows[0].StockSplits)
	assert.Equal(t, 0.24, rows[1].Dividends)
	assert.Equal(t, int64(58414500), rows[1].Volume)

	// the later bar of a repeated day wins
	assert.Equal(t, 182.5, rows[2].Open)
	assert.Equal(t, int64(1000), rows[2].Volume)
}

func TestHistorySendsRangeAndInterval(t *testing.T) {
	f, srv := newFakeYahoo(t)
	var got atomic.Value
	f.mux.HandleFunc("/chart/MSFT", func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	})

	rows, err := newClient(srv, false).History(context.Background(), "MSFT", models.Period3Mo)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Contains(t, got.Load(), "range=3mo")
	assert.Contains(t, got.Load(), "interval=1d")
}

func TestHistoryAPIError(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/chart/ZZZZ", http.StatusNotFound,
		`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)

	_, err := newClient(srv, false).History(context.Background(), "ZZZZ", models.Period1Y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestHistoryBadStatus(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/chart/AAPL", http.StatusServiceUnavailable, "upstream down")

	_, err := newClient(srv, false).History(context.Background(), "AAPL", models.Period1Y)
	assert.ErrorContains(t, err, "503")
}

func TestQuoteFlattensModules(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/summary/AAPL", http.StatusOK, summaryBody)

	attrs, err := newClient(srv, true).Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 189.3, attrs["currentPrice"])
	assert.Equal(t, 189.25, attrs["regularMarketPrice"])
	assert.Equal(t, 2.9e12, attrs["marketCap"])
	assert.Equal(t, -0.0069, attrs["regularMarketChangePercent"])
	assert.Equal(t, 190.1, attrs["dayHigh"])
	assert.Equal(t, "Apple Inc.", attrs["longName"])
	assert.Equal(t, false, attrs["tradeable"])
	assert.Equal(t, 164000.0, attrs["fullTimeEmployees"])

	for _, k := range []string{"totalCash", "trailingPE", "companyOfficers", "website"} {
		assert.NotContains(t, attrs, k)
	}

	assert.Equal(t, "abc123", f.lastCrumb.Load())
}

func TestQuoteCrumbIsCached(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/summary/AAPL", http.StatusOK, summaryBody)
	c := newClient(srv, true)

	for i := 0; i < 3; i++ {
		_, err := c.Quote(context.Background(), "AAPL")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.crumbCalls.Load())
}

func TestQuoteWithoutCrumbOnHandshakeFailure(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/summary/AAPL", http.StatusOK, summaryBody)

	c := New(Options{
		ChartURL:   srv.URL + "/chart",
		SummaryURL: srv.URL + "/summary",
		CookieURL:  srv.URL + "/missing",
		CrumbURL:   srv.URL + "/crumb-broken",
	}, logger.Nop())

	attrs, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 189.3, attrs["currentPrice"])
	assert.Equal(t, "", f.lastCrumb.Load())
}

func TestQuoteNotFound(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/summary/ZZZZ", http.StatusNotFound,
		`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: ZZZZ"}}}`)

	_, err := newClient(srv, false).Quote(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quote not found")
}

func TestQuoteEmptyResult(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/summary/AAPL", http.StatusOK, `{"quoteSummary":{"result":[],"error":null}}`)

	_, err := newClient(srv, false).Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestFinancials(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/summary/AAPL", http.StatusOK, financialsBody)

	fin, err := newClient(srv, false).Financials(context.Background(), "AAPL")
	require.NoError(t, err)

	require.Len(t, fin.Income, 2)
	assert.Equal(t, "2023-09-30", fin.Income[0].EndDate)
	assert.Equal(t, 383285000000.0, fin.Income[0].Values["totalRevenue"])
	assert.NotContains(t, fin.Income[0].Values, "maxAge")
	assert.Equal(t, "2022-09-30", fin.Income[1].EndDate)

	require.Len(t, fin.Balance, 1)
	assert.Equal(t, 29965000000.0, fin.Balance[0].Values["cash"])
	assert.Empty(t, fin.Cashflow)
}

type countingTransport struct {
	calls atomic.Int32
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestClientOptionsAndUserAgent(t *testing.T) {
	f, srv := newFakeYahoo(t)
	var ua atomic.Value
	f.mux.HandleFunc("/chart/AAPL", func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(chartBody))
	})

	rt := &countingTransport{}
	c := New(Options{ChartURL: srv.URL + "/chart", SummaryURL: srv.URL + "/summary", UserAgent: "stockdash-test"},
		logger.Nop(), xhttp.WithTransport(rt))

	_, err := c.History(context.Background(), "AAPL", models.Period1Y)
	require.NoError(t, err)
	assert.Equal(t, int32(1), rt.calls.Load())
	assert.Equal(t, "stockdash-test", ua.Load())
}

func TestHistorySkipsBarsWithoutOpenOrClose(t *testing.T) {
	f, srv := newFakeYahoo(t)
	f.handle("/chart/AAPL", http.StatusOK, `{"chart":{"result":[{
	  "meta":{"gmtoffset":0},
	  "timestamp":[1704205800,1704292200,1704378600,1704465000],
	  "indicators":{"quote":[{
	    "open":[187.15,184.22,null,181.0],
	    "high":[188.44,185.88,183.09,null],
	    "low":[183.89,183.43,180.88,null],
	    "close":[185.64,null,181.91,182.5],
	    "volume":[82488700,58414500,71983600,1000]
	  }]}
	}],"error":null}}`)

	rows, err := newClient(srv, false).History(context.Background(), "AAPL", models.Period1Y)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "2024-01-02", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-01-05", rows[1].Date.Format("2006-01-02"))
	for _, r := range rows {
		assert.NotZero(t, r.Open)
		assert.NotZero(t, r.Close)
	}

	// missing high/low fall back to the open/close range
	assert.Equal(t, 182.5, rows[1].High)
	assert.Equal(t, 181.0, rows[1].Low)
}
