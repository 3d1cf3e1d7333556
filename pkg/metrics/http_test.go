package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	metrics.ObserveRequest("POST", "/api/auth/login", "200", 120*time.Millisecond)
	metrics.ObserveRequest("POST", "/api/auth/login", "200", 80*time.Millisecond)
	metrics.ObserveRequest("POST", "/api/auth/login", "401", 30*time.Millisecond)

	got := testutil.ToFloat64(metrics.requests.WithLabelValues("POST", "/api/auth/login", "200"))
	if got != 2 {
		t.Fatalf("expected 2 ok requests, got %f", got)
	}
	got = testutil.ToFloat64(metrics.requests.WithLabelValues("POST", "/api/auth/login", "401"))
	if got != 1 {
		t.Fatalf("expected 1 rejected request, got %f", got)
	}

	count, err := testutil.GatherAndCount(reg, "http_request_duration_seconds")
	if err != nil {
		t.Fatalf("gather histogram: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one histogram series, got %d", count)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var metrics *HTTPMetrics
	metrics.ObserveRequest("GET", "/health/live", "200", time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "/health/live", "", time.Millisecond)
}
