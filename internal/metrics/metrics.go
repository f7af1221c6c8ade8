package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
//
// Every Record method is safe to call on a nil *Metrics, so components can be
// built without a registry in tests.
type Metrics struct {
	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec
	DuplicateEventsTotal   prometheus.Counter

	// Routing metrics
	IntentsTotal *prometheus.CounterVec

	// Outbound provider metrics (LLM, weather, creature)
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderDurationSeconds *prometheus.HistogramVec
	ProviderFallbackTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Game metrics
	ActiveSessions   prometheus.Gauge
	GameResultsTotal *prometheus.CounterVec

	// Reply delivery metrics
	DispatchTotal *prometheus.CounterVec

	// Meal feedback metrics
	MealFeedbackTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterWaitDuration *prometheus.HistogramVec
	RateLimiterDropped      *prometheus.CounterVec
	RateLimiterKeys         *prometheus.GaugeVec

	// Singleflight metrics
	SingleflightDedupTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "umigame_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"event_type"}, // event_type: message, postback, follow
		),

		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_webhook_requests_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error, rate_limited
		),

		DuplicateEventsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "umigame_webhook_duplicate_events_total",
				Help: "Total number of redelivered webhook events dropped as duplicates",
			},
		),

		IntentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_intents_total",
				Help: "Total number of routed messages by intent",
			},
			[]string{"intent"},
		),

		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_provider_requests_total",
				Help: "Total number of outbound provider calls by provider, operation and status",
			},
			[]string{"provider", "operation", "status"}, // status: success, error, timeout, rate_limit
		),

		ProviderDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "umigame_provider_duration_seconds",
				Help:    "Outbound provider call duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
			[]string{"provider", "operation"},
		),

		ProviderFallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_provider_fallback_total",
				Help: "Total number of LLM fallbacks from one provider to the next",
			},
			[]string{"from", "to", "operation"},
		),

		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_http_errors_total",
				Help: "Total HTTP errors by type and component",
			},
			[]string{"error_type", "component"}, // error_type: invalid_signature, parse_error, status_5xx, ...
		),

		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "umigame_active_sessions",
				Help: "Number of users currently playing the guessing game",
			},
		),

		GameResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_game_results_total",
				Help: "Total number of finished games by game and result",
			},
			[]string{"game", "result"}, // umigame: solved, quit; janken: win, lose, draw
		),

		DispatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_dispatch_total",
				Help: "Total number of outgoing message deliveries by path and status",
			},
			[]string{"path", "status"}, // path: reply, push
		),

		MealFeedbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_meal_feedback_total",
				Help: "Total number of meal suggestion ratings",
			},
			[]string{"rating"},
		),

		RateLimiterWaitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "umigame_rate_limiter_wait_duration_seconds",
				Help:    "Time spent waiting for rate limiter token by limiter type",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"limiter_type"}, // limiter_type: line_api
		),

		RateLimiterDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: user, llm
		),

		RateLimiterKeys: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "umigame_rate_limiter_keys",
				Help: "Number of tracked keys per keyed rate limiter",
			},
			[]string{"limiter_type"},
		),

		SingleflightDedupTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "umigame_singleflight_dedup_total",
				Help: "Total number of deduplicated requests (requests that waited instead of executing)",
			},
			[]string{"component"}, // component: weather, creature
		),
	}
}

// RecordWebhook records a processed webhook event
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	if m == nil {
		return
	}
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordDuplicateEvent records a dropped redelivery
func (m *Metrics) RecordDuplicateEvent() {
	if m == nil {
		return
	}
	m.DuplicateEventsTotal.Inc()
}

// RecordIntent records a routing decision
func (m *Metrics) RecordIntent(intent string) {
	if m == nil {
		return
	}
	m.IntentsTotal.WithLabelValues(intent).Inc()
}

// RecordProviderCall records an outbound provider call
func (m *Metrics) RecordProviderCall(provider, operation, status string, duration float64) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	m.ProviderDurationSeconds.WithLabelValues(provider, operation).Observe(duration)
}

// RecordProviderFallback records a switch to the next LLM in the chain
func (m *Metrics) RecordProviderFallback(from, to, operation string) {
	if m == nil {
		return
	}
	m.ProviderFallbackTotal.WithLabelValues(from, to, operation).Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, component string) {
	if m == nil {
		return
	}
	m.HTTPErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// SetActiveSessions sets the guessing game session gauge
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

// RecordGameResult records a finished game
func (m *Metrics) RecordGameResult(game, result string) {
	if m == nil {
		return
	}
	m.GameResultsTotal.WithLabelValues(game, result).Inc()
}

// RecordDispatch records an outgoing delivery attempt
func (m *Metrics) RecordDispatch(path, status string) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(path, status).Inc()
}

// RecordMealFeedback records a meal rating
func (m *Metrics) RecordMealFeedback(rating string) {
	if m == nil {
		return
	}
	m.MealFeedbackTotal.WithLabelValues(rating).Inc()
}

// RecordRateLimiterWait records time spent waiting for rate limiter
func (m *Metrics) RecordRateLimiterWait(limiterType string, duration float64) {
	if m == nil {
		return
	}
	m.RateLimiterWaitDuration.WithLabelValues(limiterType).Observe(duration)
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	if m == nil {
		return
	}
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetRateLimiterKeys sets the number of tracked keys for a keyed limiter
func (m *Metrics) SetRateLimiterKeys(limiterType string, n int) {
	if m == nil {
		return
	}
	m.RateLimiterKeys.WithLabelValues(limiterType).Set(float64(n))
}

// RecordSingleflightDedup records a deduplicated request
func (m *Metrics) RecordSingleflightDedup(component string) {
	if m == nil {
		return
	}
	m.SingleflightDedupTotal.WithLabelValues(component).Inc()
}
