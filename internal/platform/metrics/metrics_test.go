package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"ballotaudit/internal/core/ballot"
	"ballotaudit/internal/core/plaintext"
	"ballotaudit/internal/core/signature"
	"ballotaudit/internal/core/verify"
)

func TestRecorder(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveVerification(ballot.KindSingle, verify.ResultMatch, 3*time.Millisecond)
	m.ObserveVerification(ballot.KindSingle, verify.ResultMatch, time.Millisecond)
	m.ObserveVerification("", verify.ResultFailed, time.Millisecond)
	m.ObserveSignature(signature.Invalid)
	m.ObserveDiagnostic(plaintext.KindSelectedMax)
	m.IncLedgerError()

	if got := testutil.ToFloat64(m.Verifications.WithLabelValues("single", "match")); got != 2 {
		t.Fatalf("single/match = %v", got)
	}
	if got := testutil.ToFloat64(m.Verifications.WithLabelValues("unknown", "failed")); got != 1 {
		t.Fatalf("unknown/failed = %v", got)
	}
	if got := testutil.ToFloat64(m.Signatures.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid signatures = %v", got)
	}
	if got := testutil.ToFloat64(m.Diagnostics.WithLabelValues("selected_max")); got != 1 {
		t.Fatalf("selected_max = %v", got)
	}
	if got := testutil.ToFloat64(m.LedgerErrors); got != 1 {
		t.Fatalf("ledger errors = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveVerification(ballot.KindMulti, verify.ResultMismatch, time.Second)
	m.ObserveSignature(signature.Valid)
	m.ObserveDiagnostic(plaintext.KindSelectedMin)
	m.IncLedgerError()
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveSignature(signature.Absent)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `ballotaudit_signature_status_total{status="absent"} 1`) {
		t.Fatalf("metrics body missing counter:\n%s", rec.Body.String())
	}
}
