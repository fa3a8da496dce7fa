package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	internalrepo "github.com/Rono40230/Analyses-historiques/internal/repository"
	applogger "github.com/Rono40230/Analyses-historiques/pkg/logger"
)

// Imports MT5 CSV candle exports into the sqlite archive.
func main() {
	dbPath := flag.String("db", "candles.db", "sqlite archive path")
	dir := flag.String("dir", "", "directory of CSV exports to import")
	flag.Parse()

	files := flag.Args()
	if *dir != "" {
		entries, err := os.ReadDir(*dir)
		if err != nil {
			log.Fatalf("read dir: %v", err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
				files = append(files, filepath.Join(*dir, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		log.Fatalf("usage: import [-db candles.db] [-dir exports/] [file.csv ...]")
	}

	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := sql.Open("sqlite3", *dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("sqlite open: %v", err)
	}
	defer db.Close()

	store := internalrepo.NewSQLiteCandleStore(db)
	store.SetLogger(l)

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	importer := internalrepo.NewCSVImporter(l)
	failed := 0
	for _, path := range files {
		candles, err := importer.ImportFile(path)
		if err != nil {
			l.Error("import failed", applogger.String("file", path), applogger.Error(err))
			failed++
			continue
		}
		if err := store.StoreBatch(ctx, candles); err != nil {
			l.Error("store failed", applogger.String("file", path), applogger.Error(err))
			failed++
			continue
		}
		l.Info("imported",
			applogger.String("file", filepath.Base(path)),
			applogger.String("symbol", internalrepo.SymbolFromFilename(path)),
			applogger.Int("candles", len(candles)),
		)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
