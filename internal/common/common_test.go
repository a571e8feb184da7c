package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"LEDGER_DB_URL", "LEDGER_WORKERS", "PDFTOTEXT_BIN", "EXTRACT_TIMEOUT", "LOG_FORMAT", "PDFTOTEXT_LAYOUT"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig()
	assert.Equal(t, "", cfg.Database.DSN)
	assert.Equal(t, 4, cfg.Ledger.Workers)
	assert.Equal(t, "pdftotext", cfg.Extract.Pdftotext)
	assert.Equal(t, 30*time.Second, cfg.Extract.Timeout)
	assert.False(t, cfg.Extract.Layout)
	assert.Equal(t, "text", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LEDGER_DB_URL", "sqlite://./ledger.db")
	t.Setenv("LEDGER_WORKERS", "8")
	t.Setenv("EXTRACT_TIMEOUT", "5s")
	t.Setenv("PDFTOTEXT_LAYOUT", "true")
	t.Setenv("LEDGER_DEFAULT_FORMAT", "jds")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, "sqlite://./ledger.db", cfg.Database.DSN)
	assert.Equal(t, 8, cfg.Ledger.Workers)
	assert.Equal(t, 5*time.Second, cfg.Extract.Timeout)
	assert.True(t, cfg.Extract.Layout)
	assert.Equal(t, "jds", cfg.Ledger.DefaultFormat)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"workers", func(c *Config) { c.Ledger.Workers = 0 }},
		{"pdftotext", func(c *Config) { c.Extract.Pdftotext = "" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Extract: ExtractConfig{Pdftotext: "pdftotext"},
				Ledger:  LedgerConfig{Workers: 2},
				Log:     LogConfig{Format: "json"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, CodeConfig, appErr.Code)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAppError(t *testing.T) {
	err := WrapError(InvalidFormatError("BAKE_SALE"), "document a.pdf")
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	assert.Contains(t, err.Error(), `format "BAKE_SALE" is not registered`)
	assert.Equal(t, "NOPE: no cause", NewAppError("NOPE", "no cause", nil).Error())
	assert.NoError(t, WrapError(nil, "ignored"))
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Field("order_id", "  ", Required).
		Field("line_items", []string{}, NonEmpty).
		Field("strategy", "section", OneOf("section", "record")).
		Field("status", "maybe", OneOf("paid", "unpaid"))

	require.True(t, v.HasErrors())
	require.Len(t, v.Errors(), 3)
	err := v.Error()
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "order_id is required")
	assert.Contains(t, err.Error(), "line_items must have at least one entry")
	assert.Contains(t, err.Error(), "status must be one of paid, unpaid")

	assert.NoError(t, NewValidator().Field("x", "ok", Required).Error())
}

func TestContextValues(t *testing.T) {
	ctx := WithDocument(WithRunID(context.Background(), "run-1"), "jdsweid.pdf")
	assert.Equal(t, "run-1", RunIDFromContext(ctx))
	assert.Equal(t, "jdsweid.pdf", DocumentFromContext(ctx))
	assert.Equal(t, "", RunIDFromContext(context.Background()))
}
