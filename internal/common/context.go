package common

import (
	"context"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID    contextKey = "run_id"
	ContextKeyDocument contextKey = "document"
)

// WithRunID adds a ledger run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the run ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithDocument adds the document being processed to the context
func WithDocument(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, ContextKeyDocument, documentID)
}

// DocumentFromContext extracts the document ID from context
func DocumentFromContext(ctx context.Context) string {
	if doc, ok := ctx.Value(ContextKeyDocument).(string); ok {
		return doc
	}
	return ""
}
