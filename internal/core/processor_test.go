package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/common"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
	"github.com/joseph-ayodele/campaign-ledger/internal/extract"
	"github.com/joseph-ayodele/campaign-ledger/internal/fixtures"
	"github.com/joseph-ayodele/campaign-ledger/internal/ingest"
	"github.com/joseph-ayodele/campaign-ledger/internal/metrics"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureDocs() []Document {
	return []Document{
		{ID: "jdsweid.pdf", Format: constants.JDSweid, Text: fixtures.JDSweidText()},
		{ID: "little_caesars.pdf", Format: "lc", Text: fixtures.LittleCaesarsText()},
	}
}

func TestProcess_TwoFormats(t *testing.T) {
	rec := metrics.NewRecorder()
	p := NewProcessor(quietLogger(), nil, WithWorkers(2), WithMetrics(rec))

	out, err := p.Process(context.Background(), fixtureDocs())
	require.NoError(t, err)

	require.Len(t, out.Documents, 2)
	assert.Equal(t, constants.JDSweid, out.Documents[0].Format)
	assert.Equal(t, constants.LittleCaesars, out.Documents[1].Format)
	assert.Len(t, out.Orders, fixtures.JDSweidOrders+fixtures.LittleCaesarsOrders)
	require.Len(t, out.Customers, fixtures.JDSweidCustomers+fixtures.LittleCaesarsSellers)
	assert.Equal(t, "Alice Anderson", out.Customers[0].CanonicalName)
	assert.Equal(t, "Scout Alpha", out.Customers[fixtures.JDSweidCustomers].CanonicalName)

	units := 0
	for _, c := range out.Customers {
		units += c.TotalUnits
	}
	assert.Equal(t, fixtures.JDSweidUnits+fixtures.LittleCaesarsUnits, units)

	counts := entity.CountByKind(out.Warnings)
	assert.Equal(t, fixtures.LittleCaesarsNoPhone, counts[constants.WarningMissingContact])
	assert.Equal(t, fixtures.LittleCaesarsOrders-fixtures.LittleCaesarsSellers, counts[constants.WarningNameOnlyMatch])
	// parse warnings come before consolidation warnings
	assert.Equal(t, constants.WarningMissingContact, out.Warnings[0].Kind)

	assert.Equal(t, float64(fixtures.JDSweidOrders), testutil.ToFloat64(rec.OrdersParsedTotal.WithLabelValues("JD_SWEID")))
	assert.Equal(t, float64(len(out.Customers)), testutil.ToFloat64(rec.Customers))
}

func TestProcess_Deterministic(t *testing.T) {
	p := NewProcessor(quietLogger(), nil, WithWorkers(8))

	a, err := p.Process(context.Background(), fixtureDocs())
	require.NoError(t, err)
	b, err := p.Process(context.Background(), fixtureDocs())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Customers, b.Customers)
	assert.Equal(t, a.Warnings, b.Warnings)
}

func TestProcess_UnknownFormatRejectsBatch(t *testing.T) {
	rec := metrics.NewRecorder()
	p := NewProcessor(quietLogger(), nil, WithMetrics(rec))

	docs := append(fixtureDocs(), Document{ID: "mystery.pdf", Format: "BAKE_SALE"})
	out, err := p.Process(context.Background(), docs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidFormat))
	assert.Contains(t, err.Error(), "mystery.pdf")
	assert.Empty(t, out.Orders)
	assert.Equal(t, 0, testutil.CollectAndCount(rec.DocumentsParsedTotal))
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProcessor(quietLogger(), nil).Process(ctx, fixtureDocs())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type stubExtractor struct {
	texts map[string]string
}

func (s stubExtractor) Extract(_ context.Context, path string) (extract.Result, error) {
	text, ok := s.texts[path]
	if !ok {
		return extract.Result{}, errors.New("pdftotext: exit status 1")
	}
	return extract.Result{Text: text, Warnings: []string{"layout guessed"}}, nil
}

func TestLoadDocuments(t *testing.T) {
	ex := stubExtractor{texts: map[string]string{
		"/in/jdsweid.pdf":        fixtures.JDSweidText(),
		"/in/little_caesars.pdf": fixtures.LittleCaesarsText(),
	}}
	rec := metrics.NewRecorder()
	p := NewProcessor(quietLogger(), nil, WithExtractor(ex), WithMetrics(rec))

	files := []ingest.File{
		{SourcePath: "/in/jdsweid.pdf", DocumentID: "jdsweid.pdf", Format: constants.JDSweid, HashHex: "aa"},
		{SourcePath: "/in/copy.pdf", DocumentID: "copy.pdf", Format: constants.JDSweid, Deduplicated: true},
		{SourcePath: "/in/broken.pdf", DocumentID: "broken.pdf", Format: constants.JDSweid},
		{SourcePath: "/in/unreadable.pdf", Err: "permission denied"},
		{SourcePath: "/in/little_caesars.pdf", DocumentID: "little_caesars.pdf", Format: constants.LittleCaesars},
	}

	docs, fails, err := p.LoadDocuments(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "jdsweid.pdf", docs[0].ID)
	assert.Equal(t, "aa", docs[0].HashHex)
	assert.Equal(t, "little_caesars.pdf", docs[1].ID)
	require.Len(t, fails, 1)
	assert.Equal(t, "/in/broken.pdf", fails[0].SourcePath)
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.ExtractFailedTotal))

	out, err := p.Process(context.Background(), docs)
	require.NoError(t, err)
	assert.Len(t, out.Customers, fixtures.JDSweidCustomers+fixtures.LittleCaesarsSellers)
}

func TestLoadDocuments_NoExtractor(t *testing.T) {
	_, _, err := NewProcessor(quietLogger(), nil).LoadDocuments(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}
