package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Match lifecycle operations
	MatchOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grow_match_operations_total",
			Help: "Total number of match lifecycle operations",
		},
		[]string{"operation"}, // "create", "complete", "unmatch", "delete"
	)

	// Matching request submissions
	MatchingRequestCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "grow_matching_requests_total",
			Help: "Total number of matching request submissions",
		},
	)

	// Matching request status changes
	RequestStatusCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grow_matching_request_status_total",
			Help: "Total number of matching request status changes",
		},
		[]string{"status"},
	)

	// Coach verification failures on request submission
	CoachVerificationFailureCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "grow_coach_verification_failures_total",
			Help: "Total number of matching request submissions rejected by the coach verification gate",
		},
	)

	// Selection cart operations
	CartOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grow_cart_operations_total",
			Help: "Total number of selection cart operations",
		},
		[]string{"operation"}, // "add", "remove", "move_up", "move_down", "clear"
	)

	// Application review decisions
	ApplicationDecisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grow_application_decisions_total",
			Help: "Total number of application admit/reject decisions",
		},
		[]string{"entity", "decision"},
	)

	// Login/registration counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "grow_login_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "grow_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Error counters
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grow_errors_total",
			Help: "Total number of domain errors",
		},
		[]string{"type"}, // "db_error", "invalid_token", "forbidden", ...
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grow_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grow_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grow_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete", "transaction"
	)
)

// Gauge metrics
var (
	ActiveCartsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "grow_active_carts",
			Help: "Number of selection carts currently held in memory",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grow_info",
			Help: "Information about the matching service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(MatchOperationCounter)
	prometheus.MustRegister(MatchingRequestCounter)
	prometheus.MustRegister(RequestStatusCounter)
	prometheus.MustRegister(CoachVerificationFailureCounter)
	prometheus.MustRegister(CartOperationCounter)
	prometheus.MustRegister(ApplicationDecisionCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(ActiveCartsGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordMatchOperation records a match lifecycle operation
func RecordMatchOperation(operation string) {
	MatchOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordCartOperation records a selection cart operation
func RecordCartOperation(operation string) {
	CartOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordRequestStatus records a matching request status change
func RecordRequestStatus(status string) {
	RequestStatusCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordApplicationDecision records an admit/reject decision on an application
func RecordApplicationDecision(entity, decision string) {
	ApplicationDecisionCounter.With(prometheus.Labels{"entity": entity, "decision": decision}).Inc()
}

// RecordError records a domain error by type
func RecordError(errorType string) {
	ErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
