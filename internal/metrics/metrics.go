// Package metrics records engine and server activity as Prometheus series.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the collectors. A nil *Recorder records nothing.
type Recorder struct {
	runs      *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	scores    prometheus.Histogram
	requests  *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
}

// NewRecorder registers the collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_runs_total",
			Help: "Analyses and parses completed, by mode and producing source",
		}, []string{"mode", "source"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_oracle_fallbacks_total",
			Help: "Oracle calls that fell back to the local pipeline, by reason",
		}, []string{"mode", "reason"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_run_duration_seconds",
			Help:    "Duration of one analysis or parse, oracle call included",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"mode"}),
		scores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_overall_score",
			Help:    "Distribution of overall scores",
			Buckets: prometheus.LinearBuckets(10, 10, 9),
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_cache_lookups_total",
			Help: "Result cache lookups by outcome",
		}, []string{"result"}),
	}
}

// Run records one finished analysis or parse.
func (r *Recorder) Run(mode, source string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(mode, source).Inc()
	r.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// Fallback records an oracle call that produced no usable value.
func (r *Recorder) Fallback(mode, reason string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(mode, reason).Inc()
}

// Score records an overall score.
func (r *Recorder) Score(score int) {
	if r == nil {
		return
	}
	r.scores.Observe(float64(score))
}

// Request records one HTTP response.
func (r *Recorder) Request(route string, code int) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// CacheLookup records a cache hit or miss.
func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheHits.WithLabelValues(result).Inc()
}
