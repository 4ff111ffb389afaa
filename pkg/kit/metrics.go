package kit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics counts requests per route and, for error responses written
// through WriteError, the error message that was sent back.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer, service string) *HTTPMetrics {
	constLabels := prometheus.Labels{"service": service}

	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by route and status.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"method", "path"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_errors_total",
			Help:        "HTTP error responses by route, status and error message.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status", "error"}),
	}

	reg.MustRegister(m.requests, m.latency, m.errors)
	return m
}

type errorNoteKey struct{}

type errorNote struct {
	msg string
}

// noteError records the message of an error response so Instrument can label
// it. Outside Instrument it does nothing.
func noteError(ctx context.Context, msg string) {
	if n, ok := ctx.Value(errorNoteKey{}).(*errorNote); ok {
		n.msg = msg
	}
}

// Instrument observes every request. pathLabel runs after the handler, once
// chi has matched a route.
func (m *HTTPMetrics) Instrument(pathLabel func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			note := &errorNote{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), errorNoteKey{}, note)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			code := strconv.Itoa(status)
			path := pathLabel(r)

			m.latency.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(r.Method, path, code).Inc()
			if note.msg != "" {
				m.errors.WithLabelValues(r.Method, path, code, note.msg).Inc()
			}
		})
	}
}
