package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// A corrupt event_time is skipped, not fatal; the rest of the series
// still comes back.
func TestEventsByDescriptionSkipsBadTimestamp(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteEventStore(db)
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	const insert = `
        INSERT INTO calendar_events (currency, event_time, impact, description)
        VALUES (?, ?, ?, ?)
    `
	rows := [][]interface{}{
		{"USD", "2024-03-05 13:30:00", "HIGH", "Non-Farm Payrolls"},
		{"USD", "corrupted", "HIGH", "Non-Farm Payrolls"},
		{"USD", "2024-04-05 13:30:00", "HIGH", "Non-Farm Payrolls"},
	}
	for _, args := range rows {
		if _, err := db.ExecContext(ctx, insert, args...); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	events, err := store.EventsByDescription(ctx, "Non-Farm Payrolls")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	want := time.Date(2024, 3, 5, 13, 30, 0, 0, time.UTC)
	if !events[0].EventTime.Equal(want) {
		t.Fatalf("bad first event time %v, want %v", events[0].EventTime, want)
	}
}

func TestEventStoreBatchAndNames(t *testing.T) {
	db := openTestDB(t)
	store := NewSQLiteEventStore(db)
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	events := []struct {
		currency, impact, description string
		ts                            time.Time
	}{
		{"USD", "H", "Non-Farm Payrolls", time.Date(2024, 3, 5, 13, 30, 0, 0, time.UTC)},
		{"EUR", "M", "ECB Rate Decision", time.Date(2024, 3, 7, 12, 45, 0, 0, time.UTC)},
	}
	const insert = `
        INSERT INTO calendar_events (currency, event_time, impact, description)
        VALUES (?, ?, ?, ?)
    `
	for _, e := range events {
		if _, err := db.ExecContext(ctx, insert,
			e.currency, e.ts.Format("2006-01-02 15:04:05"), e.impact, e.description); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	names, err := store.EventNames(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 || names[0] != "ECB Rate Decision" {
		t.Fatalf("unexpected names %v", names)
	}

	got, err := store.EventsByDescription(ctx, "Non-Farm Payrolls")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Impact != "HIGH" {
		t.Fatalf("single-letter impact not normalized: %+v", got)
	}
}
