package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/campaign-ledger/internal/common"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/fixtures"
)

func TestRun_SameFileNameInTwoCampaigns(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "campaigns")
	for _, season := range []string{"spring", "fall"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, season), 0o755))
		body := "Delivery: " + season + "\n" + fixtures.JDSweidText()
		require.NoError(t, os.WriteFile(filepath.Join(dir, season, "jdsweid.txt"), []byte(body), 0o644))
	}

	cfg := &common.Config{
		Extract: common.ExtractConfig{Pdftotext: "pdftotext"},
		Ledger:  common.LedgerConfig{Workers: 2},
		Log:     common.LogConfig{Format: "text"},
	}
	opt := options{
		dir:     dir,
		out:     filepath.Join(root, "ledger.xlsx"),
		jsonOut: filepath.Join(root, "ledger.json"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(context.Background(), cfg, logger, opt))

	_, err := os.Stat(opt.out)
	require.NoError(t, err)

	body, err := os.ReadFile(opt.jsonOut)
	require.NoError(t, err)
	var got struct {
		Customers []entity.Customer `json:"customers"`
		Warnings  []entity.Warning  `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Len(t, got.Customers, fixtures.JDSweidCustomers)
	docs := map[string]int{}
	units := 0
	for _, c := range got.Customers {
		units += c.TotalUnits
		for _, o := range c.Orders {
			docs[o.Document]++
		}
	}
	assert.Equal(t, 2*fixtures.JDSweidUnits, units)
	assert.Equal(t, map[string]int{
		"fall/jdsweid.txt":   fixtures.JDSweidOrders,
		"spring/jdsweid.txt": fixtures.JDSweidOrders,
	}, docs)
}
