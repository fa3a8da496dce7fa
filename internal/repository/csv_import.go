package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Rono40230/Analyses-historiques/internal/domain/models"
	applogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
	"github.com/Rono40230/Analyses-historiques/pkg/util"
)

// CSVImporter parses MT5-style candle exports. Two layouts are
// accepted per row: 6 fields (time, open, high, low, close, volume)
// or 11 fields where each price pair is a decimal split on a European
// comma and has to be reassembled.
type CSVImporter struct {
	l *applogger.Logger
}

func NewCSVImporter(l *applogger.Logger) *CSVImporter {
	return &CSVImporter{l: l}
}

// SymbolFromFilename derives the pair symbol from an export filename,
// e.g. "EURUSD_M1_2024.csv" yields "EURUSD".
func SymbolFromFilename(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.Index(base, "_"); i > 0 {
		return strings.ToUpper(base[:i])
	}
	return strings.ToUpper(base)
}

// ImportFile reads one CSV export and returns validated candles.
func (imp *CSVImporter) ImportFile(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	symbol := SymbolFromFilename(path)
	candles, err := imp.Parse(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return candles, nil
}

// Parse reads CSV rows from r, attributing candles to symbol. The
// first row is treated as a header. Rows with an unexpected field
// count are skipped with a warning; invalid prices abort the import.
func (imp *CSVImporter) Parse(r io.Reader, symbol string) ([]models.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out     []models.Candle
		line    int
		skipped int
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		if line == 1 {
			continue // header
		}

		var fields []string
		switch len(record) {
		case 6:
			fields = record
		case 11:
			fields = rejoinDecimalCommas(record)
		default:
			skipped++
			if imp.l != nil {
				imp.l.Warn("skipping malformed csv row",
					applogger.String("symbol", symbol),
					applogger.Int("line", line),
					applogger.Int("fields", len(record)),
				)
			}
			continue
		}

		c, err := parseCandleRow(symbol, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrNoData)
	}
	if imp.l != nil {
		imp.l.Info("csv import parsed",
			applogger.String("symbol", symbol),
			applogger.Int("candles", len(out)),
			applogger.Int("skipped", skipped),
		)
	}
	return out, nil
}

// rejoinDecimalCommas turns a row whose decimals were split on "," by
// the csv reader back into 6 fields. Layout is time plus five integer
// and fraction pairs.
func rejoinDecimalCommas(record []string) []string {
	out := make([]string, 0, 6)
	out = append(out, record[0])
	for i := 1; i+1 < len(record); i += 2 {
		out = append(out, record[i]+"."+record[i+1])
	}
	return out
}

func parseCandleRow(symbol string, fields []string) (models.Candle, error) {
	ts, ok := util.ParseTime(strings.TrimSpace(fields[0]))
	if !ok {
		return models.Candle{}, fmt.Errorf("bad datetime %q", fields[0])
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return models.Candle{}, fmt.Errorf("bad number %q: %w", fields[i+1], err)
		}
		vals[i] = v
	}

	return models.NewCandle(symbol, ts, vals[0], vals[1], vals[2], vals[3], vals[4])
}
