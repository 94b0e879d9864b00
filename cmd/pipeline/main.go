// Package main provides the analysis pipeline entry point.
// It loads daily prices, runs the full analysis, and writes report files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"volatility-shock-lab/internal/atomicfile"
	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/ingestion"
	"volatility-shock-lab/internal/observability"
	"volatility-shock-lab/internal/orchestrator"
	"volatility-shock-lab/internal/regression"
	"volatility-shock-lab/internal/reporting"
	"volatility-shock-lab/internal/storage"
	chstore "volatility-shock-lab/internal/storage/clickhouse"
	"volatility-shock-lab/internal/storage/memory"
	"volatility-shock-lab/internal/storage/migrations"
	pgstore "volatility-shock-lab/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	equityFile := flag.String("equity-file", "", "CSV file with equity index daily closes")
	volFile := flag.String("vol-file", "", "CSV file with volatility index daily closes")
	equitySymbol := flag.String("equity-symbol", "SPX", "Equity index symbol")
	volSymbol := flag.String("vol-symbol", "VIX", "Volatility index symbol")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	outputDir := flag.String("output-dir", "output", "Output directory for reports and artifacts")
	method := flag.String("method", domain.FitMethodOLS, "Fit method: ols or bayes")
	detailLevel := flag.Int("detail-level", 1, "Wavelet detail level used for regression")
	maxLevel := flag.Int("max-level", 7, "Maximum wavelet decomposition level")
	lags := flag.String("lags", "0,1,2,3,4", "Comma-separated lags to scan, ascending")
	seed := flag.Int64("seed", 42, "Random seed for the Bayesian sampler")
	samples := flag.Int("samples", 5000, "Posterior samples for the Bayesian sampler")
	burn := flag.Int("burn", 1000, "Burn-in samples for the Bayesian sampler")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stdout, "[pipeline] ", log.LstdFlags)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	lagList, err := parseLags(*lags)
	if err != nil {
		logger.Fatalf("Invalid --lags: %v", err)
	}

	cfg := domain.DefaultAnalysisConfig()
	cfg.Method = *method
	cfg.DetailLevel = *detailLevel
	cfg.MaxLevel = *maxLevel
	cfg.Lags = lagList
	cfg.Seed = *seed
	cfg.Samples = *samples
	cfg.Burn = *burn
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling pipeline...", sig)
		cancel()
	}()

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Load CSV inputs when provided; otherwise prices must already be stored
	if *equityFile != "" {
		if err := loadCSV(ctx, stores.prices, *equityFile, *equitySymbol, logger); err != nil {
			logger.Fatalf("Failed to load %s: %v", *equityFile, err)
		}
	}
	if *volFile != "" {
		if err := loadCSV(ctx, stores.prices, *volFile, *volSymbol, logger); err != nil {
			logger.Fatalf("Failed to load %s: %v", *volFile, err)
		}
	}

	orch := orchestrator.New(orchestrator.Options{
		PriceStore:       stores.prices,
		SeriesStore:      stores.series,
		CoefficientStore: stores.coefficients,
		RunStore:         stores.runs,
		RegressionStore:  stores.regressions,
		Config:           cfg,
		EquitySymbol:     *equitySymbol,
		VolatilitySymbol: *volSymbol,
		Verbose:          *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		logger.Fatalf("Pipeline error: %v", err)
	}

	logger.Printf("Pipeline completed: run %s, best lag %d", result.RunID, result.BestLag)
	for _, e := range result.Errors {
		logger.Printf("  warning: %s", e)
	}

	if err := writeOutputs(result, cfg, *outputDir); err != nil {
		logger.Fatalf("Failed to write outputs: %v", err)
	}

	logger.Printf("Outputs written:")
	logger.Printf("  - %s", filepath.Join(*outputDir, "REPORT.md"))
	logger.Printf("  - %s", filepath.Join(*outputDir, "lag_scan.csv"))
	if result.Scan.Best != nil {
		logger.Printf("  - %s", filepath.Join(*outputDir, "best_lag.json"))
	}
}

// pipelineStores holds the stores behind their interfaces.
type pipelineStores struct {
	prices       storage.DailyPriceStore
	series       storage.SeriesStore
	coefficients storage.CoefficientStore
	runs         storage.AnalysisRunStore
	regressions  storage.RegressionStore
}

// createStores builds memory or database-backed stores. The returned cleanup
// closes any open connections.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*pipelineStores, func(), error) {
	if useMemory {
		return &pipelineStores{
			prices:       memory.NewDailyPriceStore(),
			series:       memory.NewSeriesStore(),
			coefficients: memory.NewCoefficientStore(),
			runs:         memory.NewRunStore(),
			regressions:  memory.NewRegressionStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	cleanup := func() {
		pool.Close()
		conn.Close()
	}

	return &pipelineStores{
		prices:       chstore.NewDailyPriceStore(conn),
		series:       chstore.NewSeriesStore(conn),
		coefficients: chstore.NewCoefficientStore(conn),
		runs:         pgstore.NewRunStore(pool),
		regressions:  pgstore.NewRegressionStore(pool),
	}, cleanup, nil
}

// loadCSV reads daily closes from a file into the price store.
func loadCSV(ctx context.Context, store storage.DailyPriceStore, path, symbol string, logger *log.Logger) error {
	loaded, err := ingestion.LoadFile(path, symbol)
	if err != nil {
		return err
	}
	if loaded.Rejected > 0 {
		logger.Printf("  %s: rejected %d malformed rows", symbol, loaded.Rejected)
	}
	observability.RecordIngested(symbol, loaded.Series.Len(), loaded.Rejected)
	if err := store.InsertBulk(ctx, symbol, loaded.Series.Points); err != nil {
		return err
	}
	return ctx.Err()
}

// writeOutputs publishes the report files and the best-lag artifact.
// All outputs go through the atomic temp-and-rename writer so a crash
// never leaves a truncated result file.
func writeOutputs(result *orchestrator.RunResult, cfg domain.AnalysisConfig, outputDir string) error {
	md := reporting.RenderMarkdown(result.Report)
	if err := atomicfile.WriteFile(filepath.Join(outputDir, "REPORT.md"), []byte(md)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	csv := reporting.RenderCSV(result.Report.LagRows)
	if err := atomicfile.WriteFile(filepath.Join(outputDir, "lag_scan.csv"), []byte(csv)); err != nil {
		return fmt.Errorf("write lag scan csv: %w", err)
	}

	if result.Scan.Best != nil {
		artifact := &regression.Artifact{
			Version:     regression.ArtifactVersion,
			GeneratedAt: result.Report.GeneratedAt,
			Lag:         result.BestLag,
			DetailLevel: cfg.DetailLevel,
			Result:      result.Scan.Best,
		}
		if err := artifact.WriteFile(filepath.Join(outputDir, "best_lag.json")); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}
	}

	return nil
}

// parseLags parses a comma-separated lag list.
func parseLags(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	lags := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lag, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse lag %q: %w", part, err)
		}
		lags = append(lags, lag)
	}
	if len(lags) == 0 {
		return nil, fmt.Errorf("no lags given")
	}
	return lags, nil
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
