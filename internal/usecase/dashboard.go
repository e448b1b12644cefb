package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockDash/internal/domain/models"
	domrepo "StockDash/internal/domain/repository"
	"StockDash/internal/services/keymetrics"
	"StockDash/internal/services/series"
	"StockDash/pkg/logger"
)

var (
	ErrInvalidSymbol = errors.New("invalid stock symbol")
	ErrFetchFailure  = errors.New("failed to fetch stock data")
	ErrBadFormat     = errors.New("unsupported export format")
	// ErrEmptySeries is returned when the symbol is valid but has no bars.
	ErrEmptySeries = series.ErrEmptySeries
)

// Export formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Outcomes recorded per analysis.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidSymbol = "invalid_symbol"
	OutcomeFetchFailed   = "fetch_failed"
	OutcomeNoHistory     = "no_history"
	OutcomeBadFormat     = "bad_format"
)

// DashboardUseCase runs one symbol through gate, fetch, normalization and
// metric resolution.
type DashboardUseCase struct {
	md      domrepo.MarketData
	metrics domrepo.Metrics
	log     *logger.Logger
	now     func() time.Time
}

func NewDashboardUseCase(md domrepo.MarketData, metrics domrepo.Metrics, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{md: md, metrics: metrics, log: log, now: time.Now}
}

type AnalyzeParams struct {
	Symbol string
	Period models.Period
	Chart  models.ChartStyle
}

// Analysis is everything the dashboard renders for one symbol.
type Analysis struct {
	Symbol         string                  `json:"symbol"`
	CompanyName    string                  `json:"company_name"`
	Period         models.Period           `json:"period"`
	PeriodLabel    string                  `json:"period_label"`
	Chart          models.ChartStyle       `json:"chart"`
	Metrics        []models.ResolvedMetric `json:"metrics"`
	Profile        models.CompanyProfile   `json:"profile"`
	Series         models.NormalizedSeries `json:"series"`
	Directions     []models.Direction      `json:"directions"`
	Financials     *models.Financials      `json:"financials"`
	ExportFilename string                  `json:"export_filename"`
	GeneratedAt    time.Time               `json:"generated_at"`
}

func (uc *DashboardUseCase) Analyze(ctx context.Context, p AnalyzeParams) (*Analysis, error) {
	start := uc.now()
	symbol := NormalizeSymbol(p.Symbol)
	period := p.Period
	if !period.Valid() {
		period = models.DefaultPeriod()
	}
	chart := models.NormalizeChartStyle(string(p.Chart))

	attrs, s, err := uc.load(ctx, symbol, period)
	if err != nil {
		uc.finish("analyze", start, err)
		return nil, err
	}

	fin, err := uc.md.Financials(ctx, symbol)
	if err != nil || fin == nil {
		uc.log.Warn("financials unavailable", logger.String("symbol", symbol), logger.Error(err))
		fin = &models.Financials{
			Income:   []models.StatementRow{},
			Balance:  []models.StatementRow{},
			Cashflow: []models.StatementRow{},
		}
	}

	profile := keymetrics.Profile(attrs, symbol)
	a := &Analysis{
		Symbol:         symbol,
		CompanyName:    profile.Name,
		Period:         period,
		PeriodLabel:    period.Label(),
		Chart:          chart,
		Metrics:        keymetrics.Resolve(attrs),
		Profile:        profile,
		Series:         s,
		Directions:     series.Directions(s),
		Financials:     fin,
		ExportFilename: series.ExportFilename(symbol, period.Label(), FormatCSV),
		GeneratedAt:    uc.now().UTC(),
	}

	if uc.metrics != nil {
		uc.metrics.RecordLastPrice(symbol, s[len(s)-1].Close)
	}
	uc.finish("analyze", start, nil)
	uc.log.Info("analysis complete",
		logger.String("symbol", symbol),
		logger.String("period", string(period)),
		logger.Int("rows", len(s)),
		logger.Float64("last_close", s[len(s)-1].Close),
	)
	return a, nil
}

type ExportParams struct {
	Symbol string
	Period models.Period
	Format string
}

// ExportFile is a ready-to-download artifact.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (uc *DashboardUseCase) Export(ctx context.Context, p ExportParams) (*ExportFile, error) {
	start := uc.now()
	symbol := NormalizeSymbol(p.Symbol)
	period := p.Period
	if !period.Valid() {
		period = models.DefaultPeriod()
	}
	format := p.Format
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatParquet {
		err := fmt.Errorf("%w: %q", ErrBadFormat, format)
		uc.finish("export", start, err)
		return nil, err
	}

	_, s, err := uc.load(ctx, symbol, period)
	if err != nil {
		uc.finish("export", start, err)
		return nil, err
	}

	out := &ExportFile{Filename: series.ExportFilename(symbol, period.Label(), format)}
	switch format {
	case FormatParquet:
		out.ContentType = series.ContentTypeParquet
		out.Data, err = series.EncodeParquet(s)
	default:
		out.ContentType = series.ContentTypeCSV
		out.Data, err = series.EncodeCSV(s)
	}
	if err != nil {
		uc.finish("export", start, err)
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	uc.finish("export", start, nil)
	return out, nil
}

// load runs the gate and the historical fetch, then normalizes.
func (uc *DashboardUseCase) load(ctx context.Context, symbol string, period models.Period) (models.QuoteAttributes, models.NormalizedSeries, error) {
	attrs, ok := uc.gate(ctx, symbol)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}

	rows, err := uc.md.History(ctx, symbol, period)
	if err != nil {
		uc.log.Error("history fetch failed", logger.String("symbol", symbol), logger.Error(err))
		return nil, nil, fmt.Errorf("%w: %v", ErrFetchFailure, err)
	}

	s, err := series.Normalize(rows)
	if err != nil {
		return nil, nil, err
	}
	return attrs, s, nil
}

func (uc *DashboardUseCase) finish(op string, start time.Time, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordLatency(op, uc.now().Sub(start).Seconds())
	outcome := Outcome(err)
	if op == "analyze" {
		uc.metrics.RecordAnalysis(outcome)
	}
	if err != nil {
		uc.metrics.RecordError(outcome)
	}
}

// Outcome classifies err into one of the recorded outcomes.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidSymbol):
		return OutcomeInvalidSymbol
	case errors.Is(err, ErrEmptySeries):
		return OutcomeNoHistory
	case errors.Is(err, ErrBadFormat):
		return OutcomeBadFormat
	default:
		return OutcomeFetchFailed
	}
}
