package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	applogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
	"github.com/Rono40230/Analyses-historiques/pkg/util"
)

// SQLiteEventStore implements EventSource on the same sqlite file as the
// candle archive.
type SQLiteEventStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewSQLiteEventStore(db *sql.DB) *SQLiteEventStore {
	return &SQLiteEventStore{db: db}
}

// SetLogger injects a structured logger.
func (s *SQLiteEventStore) SetLogger(l *applogger.Logger) { s.l = l }

const eventSchema = `
CREATE TABLE IF NOT EXISTS calendar_events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    currency    TEXT NOT NULL,
    event_time  TEXT NOT NULL,
    impact      TEXT NOT NULL,
    description TEXT NOT NULL,
    actual      REAL,
    forecast    REAL,
    previous    REAL
);
CREATE INDEX IF NOT EXISTS idx_events_description ON calendar_events(description);
CREATE INDEX IF NOT EXISTS idx_events_time ON calendar_events(event_time);
`

func (s *SQLiteEventStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, eventSchema); err != nil {
		return fmt.Errorf("init event schema: %w", err)
	}
	return s.db.PingContext(ctx)
}

func (s *SQLiteEventStore) EventsByDescription(ctx context.Context, description string) ([]models.CalendarEvent, error) {
	const q = `
        SELECT id, currency, event_time, impact, description, actual, forecast, previous
        FROM calendar_events
        WHERE description = ? AND event_time IS NOT NULL
        ORDER BY event_time ASC
    `
	return s.queryEvents(ctx, "events_by_description", q, description)
}

func (s *SQLiteEventStore) EventsBetween(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	const q = `
        SELECT id, currency, event_time, impact, description, actual, forecast, previous
        FROM calendar_events
        WHERE event_time >= ? AND event_time <= ?
        ORDER BY event_time ASC
    `
	return s.queryEvents(ctx, "events_between", q,
		util.FormatSQLiteTime(from), util.FormatSQLiteTime(to))
}

func (s *SQLiteEventStore) queryEvents(ctx context.Context, op, q string, args ...interface{}) ([]models.CalendarEvent, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		if s.l != nil {
			s.l.Error("sqlite query error", applogger.String("op", op), applogger.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		var ts, impact string
		if err := rows.Scan(&e.ID, &e.Currency, &ts, &impact, &e.Description, &e.Actual, &e.Forecast, &e.Previous); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		t, ok := util.ParseTime(ts)
		if !ok {
			// One corrupt row must not abort the whole series.
			if s.l != nil {
				s.l.Warn("skipping event with bad event_time",
					applogger.String("op", op), applogger.String("event_time", ts))
			}
			continue
		}
		e.EventTime = t.UTC()
		e.Impact = normalizeImpact(impact)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("sqlite events ok",
			applogger.String("op", op),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *SQLiteEventStore) EventNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT description FROM calendar_events ORDER BY description")
	if err != nil {
		return nil, fmt.Errorf("event names: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *SQLiteEventStore) StoreBatch(ctx context.Context, events []models.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}
	const chunkSize = 500
	for start := 0; start < len(events); start += chunkSize {
		end := start + chunkSize
		if end > len(events) {
			end = len(events)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, e := range events[start:end] {
			if e.Description == "" || e.EventTime.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				e.Currency,
				util.FormatSQLiteTime(e.EventTime),
				string(e.Impact),
				e.Description,
				e.Actual,
				e.Forecast,
				e.Previous,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := "INSERT INTO calendar_events (currency, event_time, impact, description, actual, forecast, previous) VALUES " +
			strings.Join(values, ",")
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store events: %w", err)
		}
	}
	return nil
}

func (s *SQLiteEventStore) Close() error {
	return s.db.Close()
}

// normalizeImpact folds the single-letter archive codes into the full
// labels.
func normalizeImpact(raw string) models.Impact {
	switch strings.ToUpper(raw) {
	case "H", "HIGH":
		return models.ImpactHigh
	case "M", "MEDIUM":
		return models.ImpactMedium
	default:
		return models.ImpactLow
	}
}
