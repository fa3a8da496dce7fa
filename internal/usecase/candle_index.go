package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	drepo "github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	"github.com/Rono40230/Analyses-historiques/pkg/logger"
)

// CandleIndex lazily caches the full minute-bar history of each instrument.
// Loading is idempotent per symbol; a load in flight blocks only readers of
// the same symbol, never the whole index.
type CandleIndex struct {
	mu      sync.RWMutex
	pairs   map[string]*pairEntry
	loader  drepo.CandleLoader
	metrics drepo.Metrics
	log     *logger.Logger
}

type pairEntry struct {
	mu      sync.Mutex
	loaded  atomic.Bool
	candles []models.Candle
}

// PairStats summarizes the cached history of one instrument.
type PairStats struct {
	Symbol      string    `json:"symbol"`
	CandleCount int       `json:"candle_count"`
	FirstCandle time.Time `json:"first_candle"`
	LastCandle  time.Time `json:"last_candle"`
}

func NewCandleIndex(loader drepo.CandleLoader, metrics drepo.Metrics, log *logger.Logger) *CandleIndex {
	return &CandleIndex{
		pairs:   make(map[string]*pairEntry),
		loader:  loader,
		metrics: metrics,
		log:     log,
	}
}

func (ci *CandleIndex) entry(symbol string) *pairEntry {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	e, ok := ci.pairs[symbol]
	if !ok {
		e = &pairEntry{}
		ci.pairs[symbol] = e
	}
	return e
}

// LoadPairCandles pulls the full history for symbol into the cache.
// Returns true when this call performed the load, false when the symbol
// was already cached.
func (ci *CandleIndex) LoadPairCandles(ctx context.Context, symbol string) (bool, error) {
	e := ci.entry(symbol)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded.Load() {
		return false, nil
	}

	start := time.Now()
	candles, err := ci.loader.LoadAllCandles(ctx, symbol)
	if err != nil {
		ci.metrics.RecordError("load_candles")
		return false, fmt.Errorf("load candles %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return false, fmt.Errorf("%w: %s", models.ErrNoData, symbol)
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp.Equal(candles[i-1].Timestamp) {
			return false, fmt.Errorf("%w: %s @ %s", models.ErrDuplicateCandle,
				symbol, candles[i].Timestamp.Format(time.RFC3339))
		}
	}

	e.candles = candles
	e.loaded.Store(true)

	ci.metrics.RecordCandlesLoaded(symbol, len(candles))
	ci.log.Info("pair candles loaded",
		logger.String("symbol", symbol),
		logger.Int("count", len(candles)),
		logger.Duration("took", time.Since(start)))

	return true, nil
}

// InvalidatePair drops one symbol from the cache so the next load rereads
// the store.
func (ci *CandleIndex) InvalidatePair(symbol string) {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	delete(ci.pairs, symbol)
}

func (ci *CandleIndex) snapshot(symbol string) ([]models.Candle, error) {
	ci.mu.RLock()
	e, ok := ci.pairs[symbol]
	ci.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrPairNotLoaded, symbol)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded.Load() {
		return nil, fmt.Errorf("%w: %s", models.ErrPairNotLoaded, symbol)
	}
	return e.candles, nil
}

// GetAllCandles returns a copy of the full cached history of symbol.
func (ci *CandleIndex) GetAllCandles(symbol string) ([]models.Candle, error) {
	candles, err := ci.snapshot(symbol)
	if err != nil {
		return nil, err
	}
	out := make([]models.Candle, len(candles))
	copy(out, candles)
	return out, nil
}

// GetCandles returns the cached bars of symbol inside [from, to] inclusive.
func (ci *CandleIndex) GetCandles(symbol string, from, to time.Time) ([]models.Candle, error) {
	candles, err := ci.snapshot(symbol)
	if err != nil {
		return nil, err
	}
	lo := sort.Search(len(candles), func(i int) bool {
		return !candles[i].Timestamp.Before(from)
	})
	hi := sort.Search(len(candles), func(i int) bool {
		return candles[i].Timestamp.After(to)
	})
	if lo >= hi {
		return nil, nil
	}
	out := make([]models.Candle, hi-lo)
	copy(out, candles[lo:hi])
	return out, nil
}

// GetCandlesForHour returns the bars of one clock hour on one date,
// [hour:00:00, hour:59:59].
func (ci *CandleIndex) GetCandlesForHour(symbol string, date time.Time, hour int) ([]models.Candle, error) {
	y, m, d := date.UTC().Date()
	from := time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	to := time.Date(y, m, d, hour, 59, 59, 0, time.UTC)
	return ci.GetCandles(symbol, from, to)
}

// GetCandlesForQuarter returns every cached bar across all dates whose
// hour of day matches hour and whose minute falls in the given quarter
// (0..3) of the hour.
func (ci *CandleIndex) GetCandlesForQuarter(symbol string, hour, quarter int) ([]models.Candle, error) {
	candles, err := ci.snapshot(symbol)
	if err != nil {
		return nil, err
	}
	var out []models.Candle
	for _, c := range candles {
		ts := c.Timestamp.UTC()
		if ts.Hour() == hour && ts.Minute()/15 == quarter {
			out = append(out, c)
		}
	}
	return out, nil
}

// Stats returns the cached range of one symbol.
func (ci *CandleIndex) Stats(symbol string) (PairStats, error) {
	candles, err := ci.snapshot(symbol)
	if err != nil {
		return PairStats{}, err
	}
	return PairStats{
		Symbol:      symbol,
		CandleCount: len(candles),
		FirstCandle: candles[0].Timestamp,
		LastCandle:  candles[len(candles)-1].Timestamp,
	}, nil
}

// AvailablePairs lists the symbols currently cached, sorted.
func (ci *CandleIndex) AvailablePairs() []string {
	ci.mu.RLock()
	defer ci.mu.RUnlock()
	out := make([]string, 0, len(ci.pairs))
	for sym, e := range ci.pairs {
		if e.loaded.Load() {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}
