package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/campaign-ledger/constants"
	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
)

func TestRecorder_Observe(t *testing.T) {
	r := NewRecorder()

	r.ObserveParse("JD_SWEID", 28, 10*time.Millisecond)
	r.ObserveParse("JD_SWEID", 2, time.Millisecond)
	r.ObserveParse("LITTLE_CAESARS", 35, time.Millisecond)
	r.ObserveExtract(time.Second, nil)
	r.ObserveExtract(time.Second, assert.AnError)
	r.ObserveWarnings([]entity.Warning{
		{Kind: constants.WarningMissingContact},
		{Kind: constants.WarningMissingContact},
		{Kind: constants.WarningNameOnlyMatch},
	})
	r.ObserveConsolidation([]entity.Customer{{TotalUnits: 6}, {TotalUnits: 4}})

	assert.Equal(t, float64(2), testutil.ToFloat64(r.DocumentsParsedTotal.WithLabelValues("JD_SWEID")))
	assert.Equal(t, float64(30), testutil.ToFloat64(r.OrdersParsedTotal.WithLabelValues("JD_SWEID")))
	assert.Equal(t, float64(35), testutil.ToFloat64(r.OrdersParsedTotal.WithLabelValues("LITTLE_CAESARS")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.ExtractFailedTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.WarningsTotal.WithLabelValues("MISSING_CONTACT")))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.Customers))
	assert.Equal(t, float64(10), testutil.ToFloat64(r.UnitsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(r.ParseDuration))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveParse("x", 1, time.Second)
		r.ObserveExtract(time.Second, nil)
		r.ObserveWarnings([]entity.Warning{{Kind: constants.WarningMalformedBlock}})
		r.ObserveConsolidation(nil)
	})
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveParse("JD_SWEID", 3, time.Millisecond)

	path := filepath.Join(t.TempDir(), "ledger.prom")
	require.NoError(t, r.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `ledger_orders_parsed_total{format="JD_SWEID"} 3`)
}
