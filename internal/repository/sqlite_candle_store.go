package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	drepo "github.com/Rono40230/Analyses-historiques/internal/domain/repository"
	applogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
	"github.com/Rono40230/Analyses-historiques/pkg/util"
)

// SQLiteCandleStore implements CandleLoader on a local sqlite file, the
// default backend for desktop-sized archives.
type SQLiteCandleStore struct {
	db *sql.DB
	tf drepo.Timeframe
	l  *applogger.Logger
}

func NewSQLiteCandleStore(db *sql.DB) *SQLiteCandleStore {
	return &SQLiteCandleStore{db: db, tf: drepo.DefaultTimeframe()}
}

// SetLogger injects a structured logger.
func (s *SQLiteCandleStore) SetLogger(l *applogger.Logger) { s.l = l }

// SetTimeframe switches the store to another bar interval. Unknown
// values fall back to the minute timeframe.
func (s *SQLiteCandleStore) SetTimeframe(tf string) { s.tf = drepo.NormalizeTimeframe(tf) }

const candleSchema = `
CREATE TABLE IF NOT EXISTS candle_data (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol    TEXT NOT NULL,
    timeframe TEXT NOT NULL DEFAULT '1m',
    timestamp TEXT NOT NULL,
    open      REAL NOT NULL,
    high      REAL NOT NULL,
    low       REAL NOT NULL,
    close     REAL NOT NULL,
    volume    REAL NOT NULL DEFAULT 0,
    UNIQUE(symbol, timeframe, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_candle_symbol_ts ON candle_data(symbol, timestamp);
`

func (s *SQLiteCandleStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, candleSchema); err != nil {
		return fmt.Errorf("init candle schema: %w", err)
	}
	return s.db.PingContext(ctx)
}

func (s *SQLiteCandleStore) LoadCandles(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	const q = `
        SELECT symbol, timestamp, open, high, low, close, volume
        FROM candle_data
        WHERE symbol = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
        ORDER BY timestamp ASC
    `
	return s.queryCandles(ctx, "load_candles", q, symbol, string(s.tf),
		util.FormatSQLiteTime(from), util.FormatSQLiteTime(to))
}

func (s *SQLiteCandleStore) LoadAllCandles(ctx context.Context, symbol string) ([]models.Candle, error) {
	const q = `
        SELECT symbol, timestamp, open, high, low, close, volume
        FROM candle_data
        WHERE symbol = ? AND timeframe = ?
        ORDER BY timestamp ASC
    `
	return s.queryCandles(ctx, "load_all_candles", q, symbol, string(s.tf))
}

func (s *SQLiteCandleStore) queryCandles(ctx context.Context, op, q string, args ...interface{}) ([]models.Candle, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("sqlite query error", applogger.String("op", op), applogger.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, 1024)
	for rows.Next() {
		var c models.Candle
		var ts string
		if err := rows.Scan(&c.Symbol, &ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			if s.l != nil {
				s.l.Error("sqlite scan error", applogger.String("op", op), applogger.Error(err))
			}
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		t, ok := util.ParseTime(ts)
		if !ok {
			return nil, fmt.Errorf("bad timestamp %q", ts)
		}
		c.Timestamp = t.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("sqlite candles ok",
			applogger.String("op", op),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// StoreBatch inserts candles in chunks, ignoring rows that collide on
// (symbol, timeframe, timestamp).
func (s *SQLiteCandleStore) StoreBatch(ctx context.Context, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	const chunkSize = 500
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
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				c.Symbol,
				string(s.tf),
				util.FormatSQLiteTime(c.Timestamp),
				c.Open,
				c.High,
				c.Low,
				c.Close,
				c.Volume,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := "INSERT OR IGNORE INTO candle_data (symbol, timeframe, timestamp, open, high, low, close, volume) VALUES " +
			strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store candles: %w", err)
		}
	}
	return nil
}

func (s *SQLiteCandleStore) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT symbol FROM candle_data ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (s *SQLiteCandleStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteCandleStore) Close() error {
	return s.db.Close()
}
