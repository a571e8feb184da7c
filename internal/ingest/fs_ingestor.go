package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
)

// FSIngestor reads from the local filesystem. Files with identical content
// are reported once; later copies come back with Deduplicated set.
type FSIngestor struct {
	DefaultFormat constants.Format // used when the file name says nothing
	logger        *slog.Logger

	mu   sync.Mutex
	seen map[string]string // hash -> first path
}

func NewFSIngestor(defaultFormat constants.Format, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{
		DefaultFormat: defaultFormat,
		logger:        logger,
		seen:          make(map[string]string),
	}
}

// IngestPath ingests one file; its document id is the base file name.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (File, error) {
	return i.ingest(ctx, path, "")
}

// ingest does the work of IngestPath. An empty docID means the base name.
func (i *FSIngestor) ingest(ctx context.Context, path, docID string) (File, error) {
	var out File

	if err := ctx.Err(); err != nil {
		return out, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		i.logger.Error("abs path error", "path", path, "error", err)
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.logger.Warn("unsupported or missing extension", "path", abs, "ext", ext)
		return out, fmt.Errorf("%w: unsupported or missing extension %q", common.ErrInvalidInput, ext)
	}

	format, detected := constants.DetectFromFilename(abs)
	if !detected {
		if i.DefaultFormat == "" {
			return out, common.InvalidFormatError(filepath.Base(abs))
		}
		format = i.DefaultFormat
	}

	sum, size, err := hashFile(abs)
	if err != nil {
		i.logger.Error("hash error", "path", abs, "error", err)
		return out, err
	}
	hashHex := hex.EncodeToString(sum)
	if docID == "" {
		docID = filepath.Base(abs)
	}

	out = File{
		SourcePath:     abs,
		DocumentID:     docID,
		Format:         format,
		FormatDetected: detected,
		HashHex:        hashHex,
		FileExt:        ext,
		Size:           size,
	}

	i.mu.Lock()
	if first, ok := i.seen[hashHex]; ok {
		out.Deduplicated = true
		out.DuplicateOf = first
	} else {
		i.seen[hashHex] = abs
	}
	i.mu.Unlock()

	i.logger.Debug("file ingested",
		"path", abs,
		"format", string(format),
		"detected", detected,
		"hash", hashHex,
		"dedup", out.Deduplicated,
	)
	return out, nil
}

// IngestDirectory walks root, skips hidden if requested, and ingests each
// file with its slash-separated path relative to root as the document id, so
// spring/jdsweid.pdf and fall/jdsweid.pdf stay distinct.
// Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]File, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []File
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, File{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(ext) {
			return nil
		}
		stats.Matched++

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		r, err := i.ingest(ctx, path, filepath.ToSlash(rel))
		if err != nil {
			results = append(results, File{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	i.logger.Info("directory ingested",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

func hashFile(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, err
	}
	return h.Sum(nil), n, nil
}
