package extract

import (
	"context"
	"time"
)

// TextExtractor turns a source document into extractor text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.TEXT
	Method     string // "pdf-text" | "plain-text"
	Duration   time.Duration
	Warnings   []string
}
