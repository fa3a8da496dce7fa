package util

import (
	"strconv"
	"strings"
	"time"
)

// SQLiteTimeFormat is the canonical timestamp layout in the sqlite
// archive.
const SQLiteTimeFormat = "2006-01-02 15:04:05"

// ParseTime tries RFC3339, the sqlite layout, the dotted MT5 export
// layout, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(SQLiteTimeFormat, s, time.UTC); err == nil {
		return t, true
	}
	// MT5 exports use "2025.01.01 00:00:00".
	if strings.Count(s, ".") == 2 {
		if t, err := time.ParseInLocation(SQLiteTimeFormat, strings.ReplaceAll(s, ".", "-"), time.UTC); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// FormatSQLiteTime renders t in the archive layout, always UTC.
func FormatSQLiteTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeFormat)
}
