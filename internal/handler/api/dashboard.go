package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	models "StockDash/internal/domain/models"
	"StockDash/internal/service/metrics"
	"StockDash/internal/service/ratelimit"
	"StockDash/internal/services/charts"
	"StockDash/internal/usecase"
	xhttp "StockDash/pkg/http"
	xlogger "StockDash/pkg/logger"
)

// Defaults pre-fill the dashboard form.
type Defaults struct {
	Symbol string
	Period models.Period
	Chart  models.ChartStyle
}

// DashboardHandler serves the dashboard page and its JSON/download API.
type DashboardHandler struct {
	logger   *xlogger.Logger
	uc       *usecase.DashboardUseCase
	limiter  *ratelimit.Limiter
	snap     *charts.Snapshotter
	defaults Defaults
}

func NewDashboardHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase, limiter *ratelimit.Limiter, snap *charts.Snapshotter, defaults Defaults) *DashboardHandler {
	if !defaults.Period.Valid() {
		defaults.Period = models.DefaultPeriod()
	}
	defaults.Chart = models.NormalizeChartStyle(string(defaults.Chart))
	return &DashboardHandler{logger: logger, uc: uc, limiter: limiter, snap: snap, defaults: defaults}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index, h.rateLimit)
	e.GET("/healthz", h.Health)

	g := e.Group("/api", h.rateLimit)
	g.GET("/validate", h.Validate)
	g.GET("/analyze", h.Analyze)
	g.GET("/export", h.Export)
	g.GET("/chart", h.Chart)
	g.GET("/chart.png", h.ChartPNG)
}

func (h *DashboardHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.limiter.Allow(c.RealIP()) {
			metrics.RateLimited.WithLabelValues(c.Path()).Inc()
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError())
		}
		return next(c)
	}
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

type validateResponse struct {
	Symbol string `json:"symbol"`
	Valid  bool   `json:"valid"`
}

func (h *DashboardHandler) Validate(c echo.Context) error {
	defer metrics.ObserveSince("validate", time.Now())
	req := &models.ValidateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbol := usecase.NormalizeSymbol(req.Symbol)
	return xhttp.SuccessResponse(c, validateResponse{
		Symbol: symbol,
		Valid:  h.uc.IsValidSymbol(c.Request().Context(), symbol),
	})
}

func (h *DashboardHandler) Analyze(c echo.Context) error {
	defer metrics.ObserveSince("analyze", time.Now())
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Symbol: req.Symbol,
		Period: models.Period(req.Period),
		Chart:  models.ChartStyle(req.Chart),
	})
	if err != nil {
		return h.fail(c, "analyze", req.Symbol, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardHandler) Export(c echo.Context) error {
	defer metrics.ObserveSince("export", time.Now())
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	f, err := h.uc.Export(c.Request().Context(), usecase.ExportParams{
		Symbol: req.Symbol,
		Period: models.Period(req.Period),
		Format: req.Format,
	})
	if err != nil {
		return h.fail(c, "export", req.Symbol, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Filename))
	return c.Blob(http.StatusOK, f.ContentType, f.Data)
}

func (h *DashboardHandler) Chart(c echo.Context) error {
	defer metrics.ObserveSince("chart", time.Now())
	page, ok, err := h.chartHTML(c)
	if !ok {
		return err
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (h *DashboardHandler) ChartPNG(c echo.Context) error {
	defer metrics.ObserveSince("chart_png", time.Now())
	if !h.snap.Enabled() {
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError(charts.ErrSnapshotDisabled.Error()))
	}
	page, ok, err := h.chartHTML(c)
	if !ok {
		return err
	}
	png, err := h.snap.Snapshot(c.Request().Context(), page)
	if err != nil {
		h.logger.Error("chart snapshot failed", xlogger.Error(err))
		metrics.APIErrors.WithLabelValues("chart_png", "ERR_INTERNAL").Inc()
		return xhttp.AppErrorResponse(c, xhttp.InternalError("Failed to render chart snapshot.").WithError(err))
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// chartHTML analyzes the requested symbol and renders the chart page. When ok
// is false the error response has already been written and err is the
// handler's result.
func (h *DashboardHandler) chartHTML(c echo.Context) (page []byte, ok bool, err error) {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return nil, false, xhttp.BadRequestResponse(c, verr)
	}
	a, err := h.uc.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Symbol: req.Symbol,
		Period: models.Period(req.Period),
		Chart:  models.ChartStyle(req.Chart),
	})
	if err != nil {
		return nil, false, h.fail(c, "chart", req.Symbol, err)
	}
	page, err = charts.RenderHTML(chartInput(a))
	if err != nil {
		h.logger.Error("chart render failed", xlogger.Error(err))
		return nil, false, xhttp.AppErrorResponse(c, xhttp.InternalError("Failed to render chart.").WithError(err))
	}
	return page, true, nil
}

func chartInput(a *usecase.Analysis) charts.Input {
	return charts.Input{
		Symbol:     a.Symbol,
		Style:      a.Chart,
		Series:     a.Series,
		Directions: a.Directions,
	}
}

// fail maps a use case error onto the API envelope.
func (h *DashboardHandler) fail(c echo.Context, endpoint, symbol string, err error) error {
	appErr := toAppError(usecase.NormalizeSymbol(symbol), err)
	metrics.APIErrors.WithLabelValues(endpoint, appErr.Code).Inc()
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(endpoint+" usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func toAppError(symbol string, err error) *xhttp.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidSymbol):
		return xhttp.InvalidSymbolError(symbol)
	case errors.Is(err, usecase.ErrEmptySeries):
		return xhttp.NoHistoryError(symbol)
	case errors.Is(err, usecase.ErrBadFormat):
		return xhttp.BadFormatError().WithError(err)
	case errors.Is(err, usecase.ErrFetchFailure):
		return xhttp.FetchFailedError().WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

type option struct {
	Code     string
	Label    string
	Selected bool
}

type pageData struct {
	Symbol     string
	Periods    []option
	Charts     []option
	Error      string
	Analysis   *usecase.Analysis
	ChartURL   string
	ExportURL  string
	ParquetURL string
}

// Index renders the dashboard. Without a symbol parameter the default symbol
// is analyzed; an explicitly empty one shows the welcome text.
func (h *DashboardHandler) Index(c echo.Context) error {
	defer metrics.ObserveSince("index", time.Now())
	q := c.QueryParams()

	symbol := h.defaults.Symbol
	if q.Has("symbol") {
		symbol = q.Get("symbol")
	}
	symbol = usecase.NormalizeSymbol(symbol)

	period := h.defaults.Period
	if p, ok := models.ParsePeriod(q.Get("period")); ok {
		period = p
	}
	chart := h.defaults.Chart
	if v := q.Get("chart"); v != "" {
		chart = models.NormalizeChartStyle(v)
	}

	data := pageData{
		Symbol:  symbol,
		Periods: periodOptions(period),
		Charts: []option{
			{Code: string(models.ChartCandlestick), Label: "candlestick", Selected: chart == models.ChartCandlestick},
			{Code: string(models.ChartLine), Label: "line", Selected: chart == models.ChartLine},
		},
	}

	status := http.StatusOK
	if symbol != "" {
		a, err := h.uc.Analyze(c.Request().Context(), usecase.AnalyzeParams{Symbol: symbol, Period: period, Chart: chart})
		if err != nil {
			appErr := toAppError(symbol, err)
			metrics.APIErrors.WithLabelValues("index", appErr.Code).Inc()
			if appErr.Status >= http.StatusInternalServerError {
				h.logger.Error("index usecase error", xlogger.String("symbol", symbol), xlogger.Error(err))
			}
			data.Error = appErr.Message
			status = appErr.Status
		} else {
			data.Analysis = a
			base := url.Values{"symbol": {a.Symbol}, "period": {string(a.Period)}}
			data.ExportURL = "/api/export?" + withParam(base, "format", "csv")
			data.ParquetURL = "/api/export?" + withParam(base, "format", "parquet")
			data.ChartURL = "/api/chart?" + withParam(base, "chart", string(a.Chart))
		}
	}
	return c.Render(status, "dashboard", data)
}

func periodOptions(selected models.Period) []option {
	ps := models.Periods()
	out := make([]option, len(ps))
	for i, p := range ps {
		out[i] = option{Code: string(p), Label: p.Label(), Selected: p == selected}
	}
	return out
}

func withParam(base url.Values, key, value string) string {
	v := make(url.Values, len(base)+1)
	for k, vs := range base {
		v[k] = append([]string(nil), vs...)
	}
	v.Set(key, value)
	return v.Encode()
}
