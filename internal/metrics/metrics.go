// Package metrics exposes Prometheus counters for the ask pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Question outcomes.
const (
	OutcomeAnswered      = "answered"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeProviderError = "provider_error"
	OutcomeInvalid       = "invalid"
	OutcomeInFlight      = "in_flight"
)

// Recorder is what services report to.
type Recorder interface {
	RecordQuestion(outcome string)
	RecordProviderLatency(provider string, d time.Duration)
	RecordPersistenceFailure()
	RecordHTTPStatus(status int)
	RecordExpiredSwept(n int)
}

// Collector is the Prometheus backed Recorder.
type Collector struct {
	questions    *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	persistFail  prometheus.Counter
	httpStatus   *prometheus.CounterVec
	expiredSwept prometheus.Counter
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "muin_questions_total",
			Help: "Questions handled, by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "muin_provider_latency_seconds",
			Help:    "Latency of provider calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"provider"}),
		persistFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "muin_persistence_failures_total",
			Help: "Question records or stats that failed to persist.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "muin_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		expiredSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "muin_entitlements_expired_total",
			Help: "Entitlements deactivated by the expiry sweep.",
		}),
	}

	reg.MustRegister(
		c.questions,
		c.latency,
		c.persistFail,
		c.httpStatus,
		c.expiredSwept,
	)
	return c
}

func (c *Collector) RecordQuestion(outcome string) {
	c.questions.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordProviderLatency(provider string, d time.Duration) {
	c.latency.WithLabelValues(provider).Observe(d.Seconds())
}

func (c *Collector) RecordPersistenceFailure() {
	c.persistFail.Inc()
}

func (c *Collector) RecordHTTPStatus(status int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (c *Collector) RecordExpiredSwept(n int) {
	c.expiredSwept.Add(float64(n))
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordQuestion(string)                       {}
func (Nop) RecordProviderLatency(string, time.Duration) {}
func (Nop) RecordPersistenceFailure()                   {}
func (Nop) RecordHTTPStatus(int)                        {}
func (Nop) RecordExpiredSwept(int)                      {}

// Handler serves the scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
