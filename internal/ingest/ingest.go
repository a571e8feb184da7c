package ingest

import (
	"context"

	"github.com/joseph-ayodele/campaign-ledger/constants"
)

// File is the per-file ingest outcome.
type File struct {
	SourcePath     string
	DocumentID     string // path relative to the ingest root (base name for a single path)
	Format         constants.Format
	FormatDetected bool // false when Format came from the default
	HashHex        string
	FileExt        string
	Size           int64
	Deduplicated   bool
	DuplicateOf    string
	Err            string
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Ingestor is the behavior the batch command depends on.
type Ingestor interface {
	// IngestPath a single path.
	IngestPath(ctx context.Context, path string) (File, error)
	// IngestDirectory ingests all matching files under root.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]File, DirStats, error)
}
