package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
	"github.com/joseph-ayodele/campaign-ledger/internal/consolidate"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/extract"
	"github.com/joseph-ayodele/campaign-ledger/internal/ingest"
	"github.com/joseph-ayodele/campaign-ledger/internal/lines"
	"github.com/joseph-ayodele/campaign-ledger/internal/metrics"
	"github.com/joseph-ayodele/campaign-ledger/internal/parser"
)

// Document is one source document's extracted text and its declared format.
type Document struct {
	ID      string
	Format  constants.Format
	Text    string
	HashHex string
}

// DocumentOutcome is the parse result of one document.
type DocumentOutcome struct {
	ID       string
	Format   constants.Format
	HashHex  string
	Orders   []entity.OrderRecord
	Warnings []entity.Warning
	Duration time.Duration
}

// Outcome is everything a batch produced. Warnings holds the parse warnings
// of every document in input order, followed by the consolidation warnings.
type Outcome struct {
	RunID     uuid.UUID
	Documents []DocumentOutcome
	Orders    []entity.OrderRecord
	Customers []entity.Customer
	Warnings  []entity.Warning
}

// Processor coordinates text extraction, parsing and consolidation.
// Documents are parsed concurrently; consolidation is one sequential pass
// over the orders in caller order.
type Processor struct {
	logger    *slog.Logger
	registry  *parser.Registry
	extractor extract.TextExtractor
	metrics   *metrics.Recorder
	workers   int
}

type Option func(*Processor)

func WithWorkers(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithExtractor(e extract.TextExtractor) Option {
	return func(p *Processor) {
		p.extractor = e
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

func NewProcessor(logger *slog.Logger, registry *parser.Registry, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = parser.NewRegistry(logger)
	}
	p := &Processor{
		logger:   logger,
		registry: registry,
		workers:  4,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process parses docs and consolidates their orders. Every format is
// resolved before any parsing starts, so an unknown format fails the whole
// batch with common.ErrInvalidFormat and nothing else is done.
func (p *Processor) Process(ctx context.Context, docs []Document) (Outcome, error) {
	runID := uuid.New()
	ctx = common.WithRunID(ctx, runID.String())
	out := Outcome{RunID: runID}

	parsers := make([]parser.Parser, len(docs))
	for i, d := range docs {
		ps, err := p.registry.Resolve(d.Format)
		if err != nil {
			p.logger.Error("batch rejected", "run_id", runID, "document", d.ID, "format", string(d.Format), "error", err)
			return out, fmt.Errorf("document %s: %w", d.ID, err)
		}
		parsers[i] = ps
	}

	slots := make([]DocumentOutcome, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d := docs[i]
			start := time.Now()
			res := parsers[i].Parse(d.ID, lines.Normalize(lines.Split(d.Text)))
			slots[i] = DocumentOutcome{
				ID:       d.ID,
				Format:   parsers[i].Format(),
				HashHex:  d.HashHex,
				Orders:   res.Orders,
				Warnings: res.Warnings,
				Duration: time.Since(start),
			}
			p.metrics.ObserveParse(string(parsers[i].Format()), len(res.Orders), slots[i].Duration)
			p.logger.Debug("document parsed",
				"run_id", common.RunIDFromContext(gctx),
				"document", d.ID,
				"orders", len(res.Orders),
				"warnings", len(res.Warnings),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	for _, s := range slots {
		out.Orders = append(out.Orders, s.Orders...)
		out.Warnings = append(out.Warnings, s.Warnings...)
	}
	out.Documents = slots

	cons := consolidate.Consolidate(out.Orders, p.logger)
	out.Customers = cons.Customers
	out.Warnings = append(out.Warnings, cons.Warnings...)

	p.metrics.ObserveWarnings(out.Warnings)
	p.metrics.ObserveConsolidation(out.Customers)

	p.logger.Info("batch processed",
		"run_id", runID,
		"documents", len(docs),
		"orders", len(out.Orders),
		"customers", len(out.Customers),
		"warnings", len(out.Warnings),
	)
	return out, nil
}

// ExtractFailure is an ingested file whose text could not be read.
type ExtractFailure struct {
	SourcePath string
	Err        error
}

// LoadDocuments extracts text for the ingested files concurrently, keeping
// their order. Duplicates and files that failed ingest are skipped; extraction
// failures are returned alongside the documents instead of aborting the batch.
func (p *Processor) LoadDocuments(ctx context.Context, files []ingest.File) ([]Document, []ExtractFailure, error) {
	if p.extractor == nil {
		return nil, nil, fmt.Errorf("%w: no text extractor configured", common.ErrInvalidInput)
	}

	var todo []ingest.File
	for _, f := range files {
		if f.Err != "" || f.Deduplicated {
			continue
		}
		todo = append(todo, f)
	}

	docs := make([]*Document, len(todo))
	fails := make([]*ExtractFailure, len(todo))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range todo {
		g.Go(func() error {
			f := todo[i]
			res, err := p.extractor.Extract(common.WithDocument(gctx, f.DocumentID), f.SourcePath)
			p.metrics.ObserveExtract(res.Duration, err)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				p.logger.Error("extract failed", "document", f.DocumentID, "error", err)
				fails[i] = &ExtractFailure{SourcePath: f.SourcePath, Err: err}
				return nil
			}
			for _, w := range res.Warnings {
				p.logger.Warn("extract warning", "document", f.DocumentID, "warning", w)
			}
			docs[i] = &Document{ID: f.DocumentID, Format: f.Format, Text: res.Text, HashHex: f.HashHex}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var outDocs []Document
	var outFails []ExtractFailure
	for i := range todo {
		if docs[i] != nil {
			outDocs = append(outDocs, *docs[i])
		}
		if fails[i] != nil {
			outFails = append(outFails, *fails[i])
		}
	}
	return outDocs, outFails, nil
}
