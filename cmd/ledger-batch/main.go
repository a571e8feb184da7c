package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
	"github.com/joseph-ayodele/campaign-ledger/internal/core"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/export"
	"github.com/joseph-ayodele/campaign-ledger/internal/extract"
	"github.com/joseph-ayodele/campaign-ledger/internal/ingest"
	"github.com/joseph-ayodele/campaign-ledger/internal/metrics"
	"github.com/joseph-ayodele/campaign-ledger/internal/parser"
	repo "github.com/joseph-ayodele/campaign-ledger/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()

	// Parse CLI flags; config supplies the defaults
	var (
		dir       = flag.String("dir", "", "directory of campaign documents to process (required)")
		format    = flag.String("format", cfg.Ledger.DefaultFormat, "format for files whose name does not identify one ("+strings.Join(constants.AsStringSlice(), ", ")+")")
		out       = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		jsonOut   = flag.String("json", "", "write customers and warnings as JSON to this path")
		tokensDir = flag.String("tokens", cfg.Ledger.TokensDir, "directory of extra token set JSON files")
		dbURL     = flag.String("db", cfg.Database.DSN, "ledger database (postgres:// URL or sqlite path; empty = in-memory)")
		workers   = flag.Int("workers", cfg.Ledger.Workers, "parallel extract/parse workers")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	cfg.Ledger.Workers = *workers
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "ledger.xlsx")
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, options{
		dir:       *dir,
		format:    *format,
		out:       *out,
		jsonOut:   *jsonOut,
		tokensDir: *tokensDir,
		dbURL:     *dbURL,
	}); err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	dir, format, out, jsonOut, tokensDir, dbURL string
}

func run(ctx context.Context, cfg *common.Config, logger *slog.Logger, opt options) error {
	started := time.Now().UTC()

	registry := parser.NewRegistry(logger)
	if opt.tokensDir != "" {
		sets, err := parser.LoadTokenSetsDir(opt.tokensDir)
		if err != nil {
			return fmt.Errorf("load token sets: %w", err)
		}
		for _, ts := range sets {
			if err := registry.RegisterTokenSet(ts); err != nil {
				return fmt.Errorf("register token set %s: %w", ts.Format, err)
			}
		}
		logger.Info("token sets loaded", "dir", opt.tokensDir, "count", len(sets), "formats", registry.Formats())
	}

	var defaultFormat constants.Format
	if opt.format != "" {
		f, _ := constants.Canonicalize(opt.format)
		if _, err := registry.Resolve(f); err != nil {
			return err
		}
		defaultFormat = f
	}

	db, err := repo.Open(ctx, repo.Config{
		DSN:             opt.dbURL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		DialTimeout:     cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("open ledger db: %w", err)
	}
	defer repo.Close(db, logger)
	ledger := repo.NewLedgerRepository(db, logger)

	recorder := metrics.NewRecorder()
	extractor := extract.NewExtractor(extract.Config{
		Pdftotext: cfg.Extract.Pdftotext,
		Layout:    cfg.Extract.Layout,
		Timeout:   cfg.Extract.Timeout,
	}, logger)
	processor := core.NewProcessor(logger, registry,
		core.WithWorkers(cfg.Ledger.Workers),
		core.WithExtractor(extractor),
		core.WithMetrics(recorder),
	)

	logger.Info("starting ingestion", "dir", opt.dir, "default_format", string(defaultFormat))
	ingestor := ingest.NewFSIngestor(defaultFormat, logger)
	files, stats, err := ingestor.IngestDirectory(ctx, opt.dir, true)
	if err != nil {
		return fmt.Errorf("ingest directory: %w", err)
	}
	for _, f := range files {
		if f.Err != "" {
			logger.Warn("file skipped", "path", f.SourcePath, "error", f.Err)
		}
	}

	docs, fails, err := processor.LoadDocuments(ctx, files)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	outcome, err := processor.Process(ctx, docs)
	if err != nil {
		return err
	}

	documents := make([]repo.DocumentSummary, len(outcome.Documents))
	for i, d := range outcome.Documents {
		documents[i] = repo.DocumentSummary{
			DocumentID: d.ID,
			Format:     string(d.Format),
			HashHex:    d.HashHex,
			Orders:     len(d.Orders),
			Warnings:   len(d.Warnings),
		}
	}
	if err := ledger.SaveRun(ctx, repo.Run{
		ID:         outcome.RunID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Documents:  documents,
		Customers:  outcome.Customers,
		Warnings:   outcome.Warnings,
	}); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	xlsx, err := export.NewService(ledger, logger).ExportRunXLSX(ctx, outcome.RunID)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(opt.out, xlsx, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opt.out, err)
	}

	if opt.jsonOut != "" {
		if err := writeJSON(opt.jsonOut, outcome.Customers, outcome.Warnings); err != nil {
			return err
		}
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn("metrics textfile not written", "path", cfg.Metrics.TextfilePath, "error", err)
		}
	}

	units := 0
	for _, c := range outcome.Customers {
		units += c.TotalUnits
	}
	logger.Info("batch processing complete",
		"run_id", outcome.RunID,
		"scanned", stats.Scanned,
		"deduplicated", stats.Deduplicated,
		"extract_failures", len(fails),
		"documents", len(outcome.Documents),
		"orders", len(outcome.Orders),
		"customers", len(outcome.Customers),
		"warnings", len(outcome.Warnings),
		"output_file", opt.out,
	)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Run: %s\n", outcome.RunID)
	fmt.Printf("- Documents: %d (%d failed extraction)\n", len(outcome.Documents), len(fails))
	fmt.Printf("- Orders: %d\n", len(outcome.Orders))
	fmt.Printf("- Customers: %d (%d units)\n", len(outcome.Customers), units)
	byKind := entity.CountByKind(outcome.Warnings)
	for _, kind := range slices.Sorted(maps.Keys(byKind)) {
		fmt.Printf("- %s: %d\n", kind, byKind[kind])
	}
	fmt.Printf("- Output: %s\n", opt.out)
	return nil
}

func writeJSON(path string, customers []entity.Customer, warnings []entity.Warning) error {
	body, err := json.MarshalIndent(struct {
		Customers []entity.Customer `json:"customers"`
		Warnings  []entity.Warning  `json:"warnings"`
	}{customers, warnings}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func newLogger(cfg common.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
