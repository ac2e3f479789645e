package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/rbac-admin/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rbac",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	SignupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rbac",
		Name:      "signups_total",
		Help:      "Total successful signups.",
	})

	TokensIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rbac",
		Name:      "tokens_issued_total",
		Help:      "Tokens written to the ledger, by type.",
	}, []string{"type"})

	TokensConsumedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rbac",
		Name:      "tokens_consumed_total",
		Help:      "Token consumption attempts, by type and outcome.",
	}, []string{"type", "outcome"})

	PermissionDeniedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rbac",
		Name:      "permission_denied_total",
		Help:      "Requests rejected by the permission gate, by permission.",
	}, []string{"permission"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rbac",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rbac",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginsTotal,
		SignupsTotal,
		TokensIssuedTotal,
		TokensConsumedTotal,
		PermissionDeniedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves the operational endpoints: Prometheus metrics plus
// the liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
