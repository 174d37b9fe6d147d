package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/studybuddy/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsDuration(t *testing.T) {
	m := metrics.New()

	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if n := testutil.CollectAndCount(m.HTTPDuration, "studybuddy_http_request_duration_seconds"); n != 1 {
		t.Errorf("series = %d, want 1", n)
	}
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := metrics.New()
	m.IngestionStages.WithLabelValues("extracting", metrics.OutcomeSuccess).Inc()
	m.ChunksPersisted.Add(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`studybuddy_ingestion_stage_total{outcome="success",stage="extracting"} 1`,
		"studybuddy_ingestion_chunks_persisted_total 3",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestOutcome(t *testing.T) {
	if got := metrics.Outcome(nil); got != metrics.OutcomeSuccess {
		t.Errorf("Outcome(nil) = %q", got)
	}
	if got := metrics.Outcome(errors.New("x")); got != metrics.OutcomeFailure {
		t.Errorf("Outcome(err) = %q", got)
	}
}
