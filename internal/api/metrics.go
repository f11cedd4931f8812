package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/org/docvault/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docvault_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docvault_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	usersTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "docvault_users_total",
		Help: "Number of user accounts.",
	})

	documentsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "docvault_documents_total",
		Help: "Number of stored documents.",
	})

	auditEntriesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "docvault_audit_entries_total",
		Help: "Number of retained audit entries.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, usersTotal, documentsTotal, auditEntriesTotal)
}

// MetricsHandler refreshes the collection gauges and serves Prometheus
// metrics.
func MetricsHandler(svc *core.Service) http.Handler {
	promHandler := promhttp.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, docs, entries := svc.Counts()
		usersTotal.Set(float64(users))
		documentsTotal.Set(float64(docs))
		auditEntriesTotal.Set(float64(entries))
		promHandler.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request metrics.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rr, r)

		dur := time.Since(start).Seconds()
		status := strconv.Itoa(rr.statusCode)
		requestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(dur)
	})
}
