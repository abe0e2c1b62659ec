// Package metrics holds the Prometheus collectors for inference and extraction.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLM call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Recorder records domain metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	llmRequests    *prometheus.CounterVec
	llmDuration    *prometheus.HistogramVec
	pagesExtracted prometheus.Histogram
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		llmRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of inference requests by outcome.",
			},
			[]string{"provider", "tool", "outcome"},
		),
		llmDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_request_duration_seconds",
				Help:    "Inference request latency.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
			},
			[]string{"provider", "tool"},
		),
		pagesExtracted: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "document_pages_extracted",
				Help:    "Number of pages extracted per uploaded document.",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	for _, c := range []prometheus.Collector{r.llmRequests, r.llmDuration, r.pagesExtracted} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveLLM records one inference call.
func (r *Recorder) ObserveLLM(provider, tool, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.llmRequests.WithLabelValues(provider, tool, outcome).Inc()
	r.llmDuration.WithLabelValues(provider, tool).Observe(d.Seconds())
}

// ObservePages records the page count of an extracted document.
func (r *Recorder) ObservePages(n int) {
	if r == nil {
		return
	}
	r.pagesExtracted.Observe(float64(n))
}
