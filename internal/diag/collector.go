// Package diag accumulates non-fatal warnings for a parse or consolidation pass.
package diag

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
)

// Collector is not safe for concurrent use; each parse or consolidation
// pass owns its own collector.
type Collector struct {
	document string
	logger   *slog.Logger
	warnings []entity.Warning
}

func NewCollector(document string, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{document: document, logger: logger}
}

// Add records a warning tied to a block. Use blockIndex -1 when there is none.
func (c *Collector) Add(kind constants.WarningKind, blockIndex int, orderIDs []string, format string, args ...any) {
	c.AddIn(c.document, kind, blockIndex, orderIDs, format, args...)
}

// AddIn is Add for a warning that belongs to another document, as happens
// when consolidating records from several documents.
func (c *Collector) AddIn(document string, kind constants.WarningKind, blockIndex int, orderIDs []string, format string, args ...any) {
	w := entity.Warning{
		Kind:       kind,
		Document:   document,
		OrderIDs:   compactIDs(orderIDs),
		BlockIndex: blockIndex,
		Message:    fmt.Sprintf(format, args...),
	}
	c.warnings = append(c.warnings, w)
	c.logger.Warn("ledger warning",
		"kind", string(kind),
		"document", document,
		"block", blockIndex,
		"order_ids", w.OrderIDs,
		"message", w.Message,
	)
}

// Warnings returns a copy of everything collected so far.
func (c *Collector) Warnings() []entity.Warning {
	out := make([]entity.Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

func compactIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
