package api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	drepo "github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	"github.com/Rono40230/Analyses-historiques/internal/usecase"
	xhttp "github.com/Rono40230/Analyses-historiques/pkg/http"
	xlogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
	"github.com/Rono40230/Analyses-historiques/pkg/util"
)

// AnalysisHandler exposes the historical volatility analyses over HTTP.
type AnalysisHandler struct {
	logger   *xlogger.Logger
	index    *usecase.CandleIndex
	loader   drepo.CandleLoader
	events   drepo.EventSource
	straddle *usecase.StraddleUseCase
	impact   *usecase.EventImpactCorrelator
	retro    *usecase.RetrospectiveAnalyzer
	cache    drepo.ResultCache
	metrics  drepo.Metrics

	cacheTTL     time.Duration
	spreadSafety float64
}

func NewAnalysisHandler(
	logger *xlogger.Logger,
	index *usecase.CandleIndex,
	loader drepo.CandleLoader,
	events drepo.EventSource,
	straddle *usecase.StraddleUseCase,
	impact *usecase.EventImpactCorrelator,
	retro *usecase.RetrospectiveAnalyzer,
	cache drepo.ResultCache,
	metrics drepo.Metrics,
	cacheTTL time.Duration,
	spreadSafety float64,
) *AnalysisHandler {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &AnalysisHandler{
		logger:       logger,
		index:        index,
		loader:       loader,
		events:       events,
		straddle:     straddle,
		impact:       impact,
		retro:        retro,
		cache:        cache,
		metrics:      metrics,
		cacheTTL:     cacheTTL,
		spreadSafety: spreadSafety,
	}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/pairs", h.Pairs)
	g.POST("/pairs/load", h.LoadPair)
	g.GET("/pairs/:symbol/stats", h.PairStats)
	g.GET("/pairs/:symbol/candles", h.Candles)
	g.GET("/events/names", h.EventNames)
	g.POST("/impact/event", h.EventImpact)
	g.POST("/straddle/simulate-hour", h.SimulateHour)
	g.POST("/straddle/simulate-quarter", h.SimulateQuarter)
	g.POST("/straddle/parameters", h.StraddleParameters)
	g.POST("/retro/impact", h.RetroImpact)
	g.POST("/retro/peak-delay", h.PeakDelay)
	g.POST("/retro/decay", h.DecayProfile)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	if err := h.loader.Health(c.Request().Context()); err != nil {
		h.logger.Error("health check failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("store unavailable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Pairs lists every symbol present in the candle store.
func (h *AnalysisHandler) Pairs(c echo.Context) error {
	symbols, err := h.loader.Symbols(c.Request().Context())
	if err != nil {
		h.logger.Error("pairs list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"pairs":  symbols,
		"loaded": h.index.AvailablePairs(),
	})
}

// LoadPair pulls a pair's full history into the in-memory index.
func (h *AnalysisHandler) LoadPair(c echo.Context) error {
	req := &models.LoadPairRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	loaded, err := h.index.LoadPairCandles(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("load pair error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	if loaded && h.cache != nil {
		// Fresh history invalidates every cached report.
		h.cache.Invalidate(c.Request().Context(), "impact:")
		h.cache.Invalidate(c.Request().Context(), "retro:")
	}
	stats, err := h.index.Stats(req.Symbol)
	if err != nil {
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"loaded_now": loaded,
		"stats":      stats,
	})
}

func (h *AnalysisHandler) PairStats(c echo.Context) error {
	req := &models.PairStatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	stats, err := h.index.Stats(req.Symbol)
	if err != nil {
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, stats)
}

// Candles returns the cached bars of one pair, optionally restricted to
// [from, to] via query parameters.
func (h *AnalysisHandler) Candles(c echo.Context) error {
	req := &models.PairStatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	fromRaw := c.QueryParam("from")
	toRaw := c.QueryParam("to")
	if fromRaw == "" && toRaw == "" {
		candles, err := h.index.GetAllCandles(req.Symbol)
		if err != nil {
			return xhttp.AppErrorResponse(c, h.appError(err))
		}
		return xhttp.ListResponse(c, candles, int64(len(candles)))
	}

	from, ok := util.ParseTime(fromRaw)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("bad from %q", fromRaw))
	}
	to, ok := util.ParseTime(toRaw)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("bad to %q", toRaw))
	}
	candles, err := h.index.GetCandles(req.Symbol, from, to)
	if err != nil {
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.ListResponse(c, candles, int64(len(candles)))
}

func (h *AnalysisHandler) EventNames(c echo.Context) error {
	names, err := h.events.EventNames(c.Request().Context())
	if err != nil {
		h.logger.Error("event names error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, names)
}

// EventImpact builds the cross-pair report for one event type. Reports
// are cached; loading or invalidating a pair clears them.
func (h *AnalysisHandler) EventImpact(c echo.Context) error {
	req := &models.EventImpactRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	key := "impact:" + req.EventType
	if raw, ok := h.cached(ctx, key); ok {
		return xhttp.SuccessResponse(c, raw)
	}

	report, err := h.impact.AnalyzeEventImpact(ctx, req.EventType)
	if err != nil {
		h.logger.Error("event impact error", xlogger.String("event", req.EventType), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	h.store(ctx, key, report)
	return xhttp.SuccessResponse(c, report)
}

func (h *AnalysisHandler) SimulateHour(c echo.Context) error {
	req := &models.SimulateHourRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("bad date %q", req.Date))
	}

	res, err := h.straddle.SimulateHour(c.Request().Context(), req.Symbol, date, req.Hour)
	if err != nil {
		h.logger.Error("simulate hour error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) SimulateQuarter(c echo.Context) error {
	req := &models.SimulateQuarterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.straddle.SimulateQuarter(c.Request().Context(), req.Symbol, req.Hour, req.Quarter)
	if err != nil {
		h.logger.Error("simulate quarter error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) StraddleParameters(c echo.Context) error {
	req := &models.StraddleParametersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	margin := req.SpreadMargin
	if margin <= 0 {
		margin = h.spreadSafety
	}
	p, err := h.straddle.Parameters(c.Request().Context(), req.Symbol, req.Hour, req.Quarter, margin)
	if err != nil {
		h.logger.Error("straddle parameters error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *AnalysisHandler) RetroImpact(c echo.Context) error {
	req := &models.RetroImpactRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()

	key := "retro:" + req.Pair + ":" + req.EventType
	if raw, ok := h.cached(ctx, key); ok {
		return xhttp.SuccessResponse(c, raw)
	}

	curve, err := h.retro.ComputeEventImpact(ctx, req.Pair, req.EventType)
	if err != nil {
		h.logger.Error("retro impact error",
			xlogger.String("pair", req.Pair),
			xlogger.String("event", req.EventType),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	h.store(ctx, key, curve)
	return xhttp.SuccessResponse(c, curve)
}

func (h *AnalysisHandler) PeakDelay(c echo.Context) error {
	req := &models.RetroMomentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	eventTime, ok := util.ParseTime(req.EventTime)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("bad event_time %q", req.EventTime))
	}

	res, err := h.retro.ComputePeakDelay(c.Request().Context(), req.Pair, eventTime)
	if err != nil {
		h.logger.Error("peak delay error", xlogger.String("pair", req.Pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) DecayProfile(c echo.Context) error {
	req := &models.RetroMomentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	eventTime, ok := util.ParseTime(req.EventTime)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("bad event_time %q", req.EventTime))
	}

	res, err := h.retro.ComputeDecayProfile(c.Request().Context(), req.Pair, eventTime)
	if err != nil {
		h.logger.Error("decay profile error", xlogger.String("pair", req.Pair), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, h.appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) cached(ctx context.Context, key string) (json.RawMessage, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok := h.cache.Get(ctx, key)
	h.metrics.RecordCacheEvent(ok)
	if !ok {
		return nil, false
	}
	h.logger.Debug("report cache hit", xlogger.String("key", key))
	return json.RawMessage(b), true
}

func (h *AnalysisHandler) store(ctx context.Context, key string, v interface{}) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn("report cache marshal error", xlogger.String("key", key), xlogger.Error(err))
		return
	}
	h.cache.Set(ctx, key, b, h.cacheTTL)
}

// appError maps domain errors onto HTTP statuses.
func (h *AnalysisHandler) appError(err error) error {
	switch {
	case errors.Is(err, models.ErrPairNotLoaded):
		return xhttp.NotFoundError("pair not loaded").WithError(err)
	case errors.Is(err, models.ErrNoData):
		return xhttp.NotFoundError("no data for request").WithError(err)
	case errors.Is(err, models.ErrUnknownSymbol):
		return xhttp.NotFoundError("unknown symbol").WithError(err)
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.BadRequestError("not enough history for analysis").WithError(err)
	case errors.Is(err, models.ErrDuplicateCandle):
		return xhttp.BadRequestError("duplicate timestamps in archive").WithError(err)
	default:
		return xhttp.InternalError("analysis failed").WithError(err)
	}
}
