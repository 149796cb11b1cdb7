package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service's prometheus registry. A nil Recorder is valid
// and records nothing.
type Recorder struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	reviews        prometheus.Counter
	authAttempts   *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reviews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reviews_submitted_total",
			Help: "Reviews accepted.",
		}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Register and login attempts by outcome.",
		}, []string{"action", "outcome"}),
	}
	reg.MustRegister(
		r.requests,
		r.requestLatency,
		r.reviews,
		r.authAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler exposes the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (r *Recorder) ReviewSubmitted() {
	if r == nil {
		return
	}
	r.reviews.Inc()
}

// AuthAttempt counts a register or login call. outcome is "ok" or the
// failure kind.
func (r *Recorder) AuthAttempt(action, outcome string) {
	if r == nil {
		return
	}
	r.authAttempts.WithLabelValues(action, outcome).Inc()
}

// Middleware records every request against its route template so path
// parameters do not explode label cardinality.
func Middleware(r *Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
