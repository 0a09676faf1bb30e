// Package metrics holds the Prometheus collectors of the verification service
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/signature"
	"ballotaudit/internal/core/verify"
)

// Metrics implements verify.Recorder
type Metrics struct {
	// Verifications by ballot kind and result: match, mismatch, failed
	Verifications *prometheus.CounterVec
	Diagnostics   *prometheus.CounterVec
	Signatures    *prometheus.CounterVec
	Duration      prometheus.Histogram
	// LedgerErrors counts spoiled-ballot ledger writes that failed
	LedgerErrors prometheus.Counter

	gatherer prometheus.Gatherer
}

var _ verify.Recorder = (*Metrics)(nil)

// New registers every collector on reg. A nil reg uses the default registry
func New(reg *prometheus.Registry) *Metrics {
	var r prometheus.Registerer = prometheus.DefaultRegisterer
	var g prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		r, g = reg, reg
	}
	f := promauto.With(r)
	return &Metrics{
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ballotaudit_verifications_total",
			Help: "Ballot verifications by ballot kind and result",
		}, []string{"kind", "result"}),

		Diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ballotaudit_diagnostics_total",
			Help: "Contest diagnostics raised while decoding, by kind",
		}, []string{"kind"}),

		Signatures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ballotaudit_signature_status_total",
			Help: "Voter signature checks by status",
		}, []string{"status"}),

		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ballotaudit_verify_duration_seconds",
			Help:    "Duration of a verification from parse to outcome",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		LedgerErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "ballotaudit_ledger_errors_total",
			Help: "Spoiled ballot ledger writes that failed",
		}),

		gatherer: g,
	}
}

// ObserveVerification records a finished or failed verification
func (m *Metrics) ObserveVerification(kind ballot.Kind, result verify.Result, took time.Duration) {
	if m == nil {
		return
	}
	k := string(kind)
	if k == "" {
		k = "unknown"
	}
	m.Verifications.WithLabelValues(k, string(result)).Inc()
	m.Duration.Observe(took.Seconds())
}

// ObserveSignature records a signature status
func (m *Metrics) ObserveSignature(s signature.Status) {
	if m != nil {
		m.Signatures.WithLabelValues(s.String()).Inc()
	}
}

// ObserveDiagnostic records one diagnostic
func (m *Metrics) ObserveDiagnostic(k plaintext.Kind) {
	if m != nil {
		m.Diagnostics.WithLabelValues(string(k)).Inc()
	}
}

// IncLedgerError records a failed ledger write
func (m *Metrics) IncLedgerError() {
	if m != nil {
		m.LedgerErrors.Inc()
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
