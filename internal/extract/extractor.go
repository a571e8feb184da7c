package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
)

type Config struct {
	Pdftotext string        // binary name or absolute path; if empty -> "pdftotext"
	Layout    bool          // pass -layout to pdftotext
	Timeout   time.Duration // per document, 0 = none
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner swaps the command runner, mostly for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract picks a strategy based on file extension. Text files are returned
// verbatim so pre-extracted output can be replayed without pdftotext.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	doc := common.DocumentFromContext(ctx)
	e.logger.Debug("starting text extraction", "document", doc, "path", path, "ext", ext)

	var (
		res Result
		err error
	)
	switch constants.MapExtToSourceType(ext) {
	case constants.PDF:
		res, err = e.pdfToText(ctx, path)
	case constants.TEXT:
		res, err = readText(path)
	default:
		e.logger.Error("unsupported extension", "document", doc, "extension", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	e.logger.Info("text extracted",
		"document", doc,
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (Result, error) {
	// pdftotext [-layout] -enc UTF-8 -eol unix <path> -
	args := []string{"-enc", "UTF-8", "-eol", "unix", path, "-"}
	if e.cfg.Layout {
		args = append([]string{"-layout"}, args...)
	}
	res := Result{SourceType: constants.PDF, Method: "pdf-text"}
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(errb)); msg != "" {
			res.Warnings = append(res.Warnings, msg)
		}
		return res, err
	}
	res.Text = string(out)
	res.Pages = countPages(res.Text)
	if strings.TrimSpace(res.Text) == "" {
		res.Warnings = append(res.Warnings, "pdftotext produced no text; the PDF may be scanned")
	}
	return res, nil
}

func readText(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{SourceType: constants.TEXT}, err
	}
	text := string(b)
	return Result{
		Text:       text,
		Pages:      countPages(text),
		SourceType: constants.TEXT,
		Method:     "plain-text",
	}, nil
}

// countPages treats every form feed as a page separator; a trailing one
// closes the last page rather than opening a new one.
func countPages(text string) int {
	if text == "" {
		return 0
	}
	return 1 + strings.Count(strings.TrimRight(text, "\f\n"), "\f")
}
