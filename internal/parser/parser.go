// Package parser recovers order records from the line stream of a source
// document. Each format is a TokenSet plus a block-splitting strategy.
package parser

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/lines"
)

// Parser produces order records from one document's normalized lines.
// Implementations hold no per-document state and may be shared across goroutines.
type Parser interface {
	Format() constants.Format
	Parse(documentID string, ls []lines.Line) Result
}

// Result is the output of the parse stage for one document.
type Result struct {
	Orders   []entity.OrderRecord
	Warnings []entity.Warning
}

// ParseRequest is one document to parse.
type ParseRequest struct {
	DocumentID string
	Lines      []string
	Format     constants.Format
}

// New builds the parser matching the token set's strategy.
func New(ts TokenSet, logger *slog.Logger) (Parser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	switch ts.Strategy {
	case StrategySection:
		return newSectionParser(ts, logger), nil
	case StrategyRecord:
		return newRecordParser(ts, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", ts.Strategy)
	}
}

// Registry stores parsers by format and resolves them on demand.
type Registry struct {
	mu      sync.RWMutex
	parsers map[constants.Format]Parser
	logger  *slog.Logger
}

// NewRegistry creates a registry holding the built-in formats.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		parsers: make(map[constants.Format]Parser),
		logger:  logger,
	}
	r.Register(newSectionParser(JDSweidTokens(), logger))
	r.Register(newRecordParser(LittleCaesarsTokens(), logger))
	return r
}

// Register adds p. A later registration for the same format replaces the earlier one.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
}

// RegisterTokenSet adds a format defined purely by data.
func (r *Registry) RegisterTokenSet(ts TokenSet) error {
	p, err := New(ts, r.logger)
	if err != nil {
		r.logger.Error("token set rejected",
			"format", string(ts.Format),
			"validation", common.IsValidation(err),
			"error", err,
		)
		return err
	}
	r.Register(p)
	r.logger.Info("registered token set", "format", string(ts.Format), "strategy", string(ts.Strategy))
	return nil
}

// Resolve returns the parser for format. Synonyms accepted by
// constants.Canonicalize resolve to their built-in format.
func (r *Registry) Resolve(format constants.Format) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.parsers[format]; ok {
		return p, nil
	}
	canon, _ := constants.Canonicalize(string(format))
	if p, ok := r.parsers[canon]; ok {
		return p, nil
	}
	return nil, common.InvalidFormatError(string(format))
}

// Formats returns a sorted list of all registered formats.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.parsers))
	for f := range r.parsers {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// Parse resolves the request's format, then normalizes and parses its lines.
// An unknown format is the only error; everything else is reported as warnings.
func (r *Registry) Parse(req ParseRequest) (Result, error) {
	p, err := r.Resolve(req.Format)
	if err != nil {
		r.logger.Error("parse rejected", "document", req.DocumentID, "format", string(req.Format), "error", err)
		return Result{}, err
	}
	start := time.Now()
	res := p.Parse(req.DocumentID, lines.Normalize(req.Lines))
	r.logger.Info("document parsed",
		"document", req.DocumentID,
		"format", string(p.Format()),
		"lines", len(req.Lines),
		"orders", len(res.Orders),
		"warnings", len(res.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
