// Package main provides the daily close ingestion tool.
// Reads (date, close) CSV rows from a file or URL and stores them in ClickHouse.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"volatility-shock-lab/internal/ingestion"
	"volatility-shock-lab/internal/observability"
	chstore "volatility-shock-lab/internal/storage/clickhouse"
	"volatility-shock-lab/internal/storage/migrations"
)

func main() {
	loadEnvFile()

	file := flag.String("file", "", "CSV file to ingest")
	url := flag.String("url", "", "URL to fetch CSV from (alternative to --file)")
	symbol := flag.String("symbol", "", "Symbol to ingest under (e.g. SPX, VIX)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	timeout := flag.Duration("timeout", 30*time.Second, "HTTP fetch timeout")
	dryRun := flag.Bool("dry-run", false, "Parse and validate without writing to storage")
	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags|log.Lshortfile)

	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	if (*file == "") == (*url == "") {
		logger.Fatal("exactly one of --file or --url is required")
	}
	if !*dryRun && *clickhouseDSN == "" {
		logger.Fatal("--clickhouse-dsn is required (or use --dry-run)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling...", sig)
		cancel()
	}()

	var (
		loaded *ingestion.LoadResult
		err    error
	)
	if *file != "" {
		loaded, err = ingestion.LoadFile(*file, *symbol)
	} else {
		client := &http.Client{Timeout: *timeout}
		loaded, err = ingestion.Fetch(ctx, client, *url, *symbol)
	}
	if err != nil {
		observability.RecordIngestionError("load")
		logger.Fatalf("Failed to load %s: %v", *symbol, err)
	}

	logger.Printf("Parsed %d points for %s (%d rows rejected)", loaded.Series.Len(), *symbol, loaded.Rejected)
	observability.RecordIngested(*symbol, loaded.Series.Len(), loaded.Rejected)

	if *dryRun {
		logger.Printf("Dry run, nothing written")
		return
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to ClickHouse: %v", err)
	}
	defer conn.Close()

	store := chstore.NewDailyPriceStore(conn)
	if err := store.InsertBulk(ctx, *symbol, loaded.Series.Points); err != nil {
		observability.RecordIngestionError("insert")
		logger.Fatalf("Failed to insert points: %v", err)
	}

	logger.Printf("Stored %d points for %s", loaded.Series.Len(), *symbol)
}

// loadEnvFile loads .env into the environment without overriding existing vars.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
