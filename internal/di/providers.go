package di

import (
	"fmt"
	"io"

	"StockDash/internal/domain/models"
	"StockDash/internal/domain/repository"
	"StockDash/internal/handler/api"
	internalrepo "StockDash/internal/repository"
	"StockDash/internal/service/cache"
	apimetrics "StockDash/internal/service/metrics"
	"StockDash/internal/service/ratelimit"
	"StockDash/internal/service/yahoo"
	"StockDash/internal/services/charts"
	"StockDash/internal/usecase"
	"StockDash/pkg/config"
	xhttp "StockDash/pkg/http"
	"StockDash/pkg/logger"
	"StockDash/pkg/metrics"
	"StockDash/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder and registers the
// HTTP API collectors on the default registry.
func ProvideMetrics() repository.Metrics {
	apimetrics.Register()
	return metrics.New(nil)
}

// ProvideBytesCache creates the configured quote/history cache. The "none"
// backend yields a nil cache.
func ProvideBytesCache(cfg *config.Config) (cache.BytesCache, error) {
	c, err := cache.New(cache.Options{
		Backend: cfg.Cache.Backend,
		Redis: cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return c, nil
}

// ProvideMarketData creates the Yahoo client behind the caching decorator.
func ProvideMarketData(cfg *config.Config, log *logger.Logger, c cache.BytesCache) repository.MarketData {
	client := yahoo.New(yahoo.Options{
		ChartURL:   cfg.Yahoo.ChartURL,
		SummaryURL: cfg.Yahoo.SummaryURL,
		CookieURL:  cfg.Yahoo.CookieURL,
		CrumbURL:   cfg.Yahoo.CrumbURL,
		UserAgent:  cfg.Yahoo.UserAgent,
		Timeout:    cfg.Yahoo.Timeout,
	}, log)
	return internalrepo.NewCachedMarketData(client, c, cfg.Cache.TTL, log)
}

// ProvideDashboardUseCase creates the dashboard use case.
func ProvideDashboardUseCase(md repository.MarketData, m repository.Metrics, log *logger.Logger) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(md, m, log)
}

// ProvideLimiter creates the per-client rate limiter.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideSnapshotter creates the headless chart snapshotter.
func ProvideSnapshotter(cfg *config.Config) *charts.Snapshotter {
	return charts.NewSnapshotter(cfg.Charts.SnapshotEnabled, cfg.Charts.SnapshotTimeout)
}

// ProvideDashboardHandler creates the dashboard HTTP handler.
func ProvideDashboardHandler(
	cfg *config.Config,
	log *logger.Logger,
	uc *usecase.DashboardUseCase,
	limiter *ratelimit.Limiter,
	snap *charts.Snapshotter,
) *api.DashboardHandler {
	return api.NewDashboardHandler(log, uc, limiter, snap, api.Defaults{
		Symbol: cfg.Dashboard.DefaultSymbol,
		Period: models.Period(cfg.Dashboard.DefaultPeriod),
		Chart:  models.ChartStyle(cfg.Dashboard.DefaultChart),
	})
}

// ProvideHTTPServer creates the Echo server with the dashboard routes.
func ProvideHTTPServer(cfg *config.Config, h *api.DashboardHandler, log *logger.Logger) (*xhttp.Server, error) {
	renderer, err := api.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	return xhttp.NewServer(h, log,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithMetrics(metricsPath, cfg.Server.SlowThreshold),
		xhttp.WithRenderer(renderer),
	), nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	srv *xhttp.Server,
	limiter *ratelimit.Limiter,
	c cache.BytesCache,
) *server.App {
	app := server.New(cfg, log, srv, limiter)
	if closer, ok := c.(io.Closer); ok {
		app.AddCloser(closer)
	}
	return app
}
