package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}
	if m.WebhookRequestsTotal == nil || m.WebhookDurationSeconds == nil {
		t.Error("webhook metrics are nil")
	}
	if m.ProviderRequestsTotal == nil || m.ProviderDurationSeconds == nil {
		t.Error("provider metrics are nil")
	}
	if m.ActiveSessions == nil || m.GameResultsTotal == nil {
		t.Error("game metrics are nil")
	}
	if m.RateLimiterDropped == nil || m.RateLimiterKeys == nil {
		t.Error("rate limiter metrics are nil")
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	// Should not panic
	m.RecordWebhook("message", "success", 0.1)
	m.RecordDuplicateEvent()
	m.RecordIntent("chat")
	m.RecordProviderCall("gemini", "chat", "success", 1)
	m.RecordProviderFallback("gemini", "groq", "chat")
	m.RecordHTTPError("timeout", "weather")
	m.SetActiveSessions(3)
	m.RecordGameResult("janken", "win")
	m.RecordDispatch("reply", "success")
	m.RecordMealFeedback("good")
	m.RecordRateLimiterWait("line_api", 0.1)
	m.RecordRateLimiterDrop("user")
	m.SetRateLimiterKeys("user", 10)
	m.RecordSingleflightDedup("weather")
}

func TestRecordValues(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordIntent("weather")
	m.RecordIntent("weather")
	m.RecordGameResult("umigame", "solved")
	m.SetActiveSessions(4)
	m.RecordDuplicateEvent()
	m.RecordDispatch("push", "error")

	if got := testutil.ToFloat64(m.IntentsTotal.WithLabelValues("weather")); got != 2 {
		t.Errorf("intents weather = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.GameResultsTotal.WithLabelValues("umigame", "solved")); got != 1 {
		t.Errorf("umigame solved = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ActiveSessions); got != 4 {
		t.Errorf("active sessions = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.DuplicateEventsTotal); got != 1 {
		t.Errorf("duplicates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DispatchTotal.WithLabelValues("push", "error")); got != 1 {
		t.Errorf("dispatch push error = %v, want 1", got)
	}
}

func TestMetrics_RegisteredNames(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordWebhook("message", "success", 0.5)
	m.RecordProviderCall("openai", "puzzle", "success", 1.2)
	m.RecordRateLimiterDrop("llm")

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	expectedMetrics := map[string]bool{
		"umigame_webhook_requests_total":     false,
		"umigame_webhook_duration_seconds":   false,
		"umigame_provider_requests_total":    false,
		"umigame_provider_duration_seconds":  false,
		"umigame_rate_limiter_dropped_total": false,
		"umigame_active_sessions":            false,
	}

	for _, mf := range metricFamilies {
		if _, ok := expectedMetrics[mf.GetName()]; ok {
			expectedMetrics[mf.GetName()] = true
		}
	}

	for name, found := range expectedMetrics {
		if !found {
			t.Errorf("Expected metric %q not found", name)
		}
	}
}
