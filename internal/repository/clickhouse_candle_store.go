package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	pkgch "github.com/Rono40230/Analyses-historiques/pkg/clickhouse"
	applogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
)

// CHCandleStore implements CandleLoader backed by ClickHouse, for archives
// too large for a single sqlite file.
type CHCandleStore struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

func NewCHCandleStore(ch *pkgch.Client) *CHCandleStore {
	return &CHCandleStore{client: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

var chCandleSchema = []string{
	`CREATE TABLE IF NOT EXISTS candles_1m (
        ts      DateTime('UTC'),
        symbol  LowCardinality(String),
        open    Float64,
        high    Float64,
        low     Float64,
        close   Float64,
        volume  Float64
    ) ENGINE = ReplacingMergeTree
    ORDER BY (symbol, ts)`,
}

func (s *CHCandleStore) Init(ctx context.Context) error {
	for _, stmt := range chCandleSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init clickhouse schema: %w", err)
		}
	}
	return s.db.PingContext(ctx)
}

func (s *CHCandleStore) LoadCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	const q = `
        SELECT symbol, ts, open, high, low, close, volume
        FROM candles_1m
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts ASC
    `
	return s.queryCandles(ctx, "load_candles", q, symbol, from, to)
}

func (s *CHCandleStore) LoadAllCandles(ctx context.Context, symbol string) ([]models.Candle, error) {
	const q = `
        SELECT symbol, ts, open, high, low, close, volume
        FROM candles_1m
        WHERE symbol = ?
        ORDER BY ts ASC
    `
	return s.queryCandles(ctx, "load_all_candles", q, symbol)
}

func (s *CHCandleStore) queryCandles(ctx context.Context, op, q string, args ...interface{}) ([]models.Candle, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse query error", applogger.String("op", op), applogger.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 1024)
	for rows.Next() {
		var c models.Candle
		var ts time.Time
		if err := rows.Scan(&c.Symbol, &ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse scan error", applogger.String("op", op), applogger.Error(err))
			}
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Timestamp = ts.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse candles ok",
			applogger.String("op", op),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// StoreBatch inserts candles in multi-row chunks to cut round-trips.
func (s *CHCandleStore) StoreBatch(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(candles); start += chunkSize {
		end := start + chunkSize
		if end > len(candles) {
			end = len(candles)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, c := range candles[start:end] {
			if c.Symbol == "" || c.Timestamp.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, c.Timestamp, c.Symbol, c.Open, c.High, c.Low, c.Close, c.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := "INSERT INTO candles_1m (ts, symbol, open, high, low, close, volume) VALUES " +
			strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store candles: %w", err)
		}
	}
	return nil
}

func (s *CHCandleStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT symbol FROM candles_1m ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (s *CHCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHCandleStore) Close() error {
	return s.client.Close()
}
