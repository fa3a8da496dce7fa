package di

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	"github.com/Rono40230/Analyses-historiques/internal/handler/api"
	internalrepo "github.com/Rono40230/Analyses-historiques/internal/repository"
	"github.com/Rono40230/Analyses-historiques/internal/usecase"
	pkgcache "github.com/Rono40230/Analyses-historiques/pkg/cache"
	pkgch "github.com/Rono40230/Analyses-historiques/pkg/clickhouse"
	"github.com/Rono40230/Analyses-historiques/pkg/config"
	xhttp "github.com/Rono40230/Analyses-historiques/pkg/http"
	applogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
	"github.com/Rono40230/Analyses-historiques/pkg/metrics"
	"github.com/Rono40230/Analyses-historiques/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSQLiteDB opens the local archive file.
func ProvideSQLiteDB(cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.Database.Path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// sqlite serializes writes anyway
	db.SetMaxOpenConns(1)
	return db, nil
}

// ProvideCandleLoader selects the candle backend from config.
func ProvideCandleLoader(cfg *config.Config, db *sql.DB, l *applogger.Logger) (repository.CandleLoader, error) {
	if cfg.Database.Type == "clickhouse" {
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
			pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		store := internalrepo.NewCHCandleStore(client)
		store.SetLogger(l)
		return store, nil
	}

	store := internalrepo.NewSQLiteCandleStore(db)
	store.SetLogger(l)
	return store, nil
}

// ProvideEventSource creates the calendar store. The calendar always
// lives in the sqlite file, whatever backend holds the candles.
func ProvideEventSource(db *sql.DB, l *applogger.Logger) repository.EventSource {
	store := internalrepo.NewSQLiteEventStore(db)
	store.SetLogger(l)
	return store
}

// ProvideResultCache selects Redis or in-process memory for computed
// reports.
func ProvideResultCache(cfg *config.Config) (repository.ResultCache, error) {
	if cfg.Redis.Enabled {
		store, err := pkgcache.NewRedisStore(
			pkgcache.WithRedisAddr(cfg.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return store, nil
	}
	return pkgcache.NewMemoryStore(), nil
}

// ProvideCandleIndex creates the shared in-memory candle index.
func ProvideCandleIndex(loader repository.CandleLoader, m repository.Metrics, l *applogger.Logger) *usecase.CandleIndex {
	return usecase.NewCandleIndex(loader, m, l)
}

// ProvideVolatilityCalculator configures the event window arithmetic.
func ProvideVolatilityCalculator(cfg *config.Config) *usecase.VolatilityWindowCalculator {
	return usecase.NewVolatilityWindowCalculator(
		time.Duration(cfg.Analysis.EventWindowMinutes)*time.Minute,
		cfg.Analysis.BaselineDays,
	)
}

// ProvideEventImpactCorrelator creates the cross-pair impact use case.
func ProvideEventImpactCorrelator(
	index *usecase.CandleIndex,
	loader repository.CandleLoader,
	events repository.EventSource,
	calc *usecase.VolatilityWindowCalculator,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.EventImpactCorrelator {
	ec := usecase.NewEventImpactCorrelator(index, loader, events, calc, m, l)
	ec.BullishThreshold = cfg.Analysis.BullishThreshold
	ec.BearishThreshold = cfg.Analysis.BearishThreshold
	return ec
}

// ProvideRetrospectiveAnalyzer creates the per-pair replay use case.
func ProvideRetrospectiveAnalyzer(
	index *usecase.CandleIndex,
	events repository.EventSource,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.RetrospectiveAnalyzer {
	return usecase.NewRetrospectiveAnalyzer(index, events, m, l)
}

// ProvideStraddleUseCase creates the straddle simulation use case.
func ProvideStraddleUseCase(index *usecase.CandleIndex, m repository.Metrics, l *applogger.Logger) *usecase.StraddleUseCase {
	return usecase.NewStraddleUseCase(
		index,
		usecase.NewStraddleSimulator(),
		usecase.NewStraddleParameterService(),
		usecase.NewDurationAnalyzer(),
		m,
		l,
	)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	index *usecase.CandleIndex,
	loader repository.CandleLoader,
	events repository.EventSource,
	straddle *usecase.StraddleUseCase,
	impact *usecase.EventImpactCorrelator,
	retro *usecase.RetrospectiveAnalyzer,
	cache repository.ResultCache,
	m repository.Metrics,
) xhttp.Handler {
	return api.NewAnalysisHandler(l, index, loader, events, straddle, impact, retro, cache, m,
		cfg.Analysis.ReportCacheTTL, cfg.Analysis.SpreadSafetyPips)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	loader repository.CandleLoader,
	events repository.EventSource,
	cache repository.ResultCache,
	handler xhttp.Handler,
) *server.App {
	app := server.New(cfg, l, loader, events, handler)
	if closer, ok := cache.(interface{ Close() error }); ok {
		app.AddCloser(closer.Close)
	}
	return app
}
