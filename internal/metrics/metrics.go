// Package metrics holds the batch counters. Each Recorder owns its own
// registry so runs and tests do not share state.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/joseph-ayodele/campaign-ledger/internal/entity"
)

type Recorder struct {
	registry *prometheus.Registry

	DocumentsParsedTotal *prometheus.CounterVec
	OrdersParsedTotal    *prometheus.CounterVec
	WarningsTotal        *prometheus.CounterVec
	ExtractFailedTotal   prometheus.Counter
	Customers            prometheus.Gauge
	UnitsTotal           prometheus.Gauge
	ParseDuration        *prometheus.HistogramVec
	ExtractDuration      prometheus.Histogram
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		DocumentsParsedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_documents_parsed_total",
			Help: "Total number of documents parsed",
		}, []string{"format"}),
		OrdersParsedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_orders_parsed_total",
			Help: "Total number of order records recovered",
		}, []string{"format"}),
		WarningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_warnings_total",
			Help: "Total number of warnings by kind",
		}, []string{"kind"}),
		ExtractFailedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_extract_failed_total",
			Help: "Total number of documents whose text could not be extracted",
		}),
		Customers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_customers",
			Help: "Customers after the last consolidation",
		}),
		UnitsTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_units",
			Help: "Units across all customers after the last consolidation",
		}),
		ParseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_parse_duration_seconds",
			Help:    "Time spent parsing one document",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		ExtractDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_extract_duration_seconds",
			Help:    "Time spent extracting text from one document",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveParse records one parsed document.
func (r *Recorder) ObserveParse(format string, orders int, d time.Duration) {
	if r == nil {
		return
	}
	r.DocumentsParsedTotal.WithLabelValues(format).Inc()
	r.OrdersParsedTotal.WithLabelValues(format).Add(float64(orders))
	r.ParseDuration.WithLabelValues(format).Observe(d.Seconds())
}

// ObserveExtract records one extraction attempt.
func (r *Recorder) ObserveExtract(d time.Duration, err error) {
	if r == nil {
		return
	}
	r.ExtractDuration.Observe(d.Seconds())
	if err != nil {
		r.ExtractFailedTotal.Inc()
	}
}

// ObserveWarnings counts warnings by kind.
func (r *Recorder) ObserveWarnings(ws []entity.Warning) {
	if r == nil {
		return
	}
	for kind, n := range entity.CountByKind(ws) {
		r.WarningsTotal.WithLabelValues(string(kind)).Add(float64(n))
	}
}

// ObserveConsolidation sets the customer and unit gauges.
func (r *Recorder) ObserveConsolidation(customers []entity.Customer) {
	if r == nil {
		return
	}
	units := 0
	for _, c := range customers {
		units += c.TotalUnits
	}
	r.Customers.Set(float64(len(customers)))
	r.UnitsTotal.Set(float64(units))
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
