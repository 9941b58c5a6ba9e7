// Package metrics provides Prometheus metrics for document validation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Document outcomes used as the "result" label.
const (
	ResultValid      = "valid"
	ResultInvalid    = "invalid"
	ResultParseError = "parse_error"
	ResultReadError  = "read_error"
)

// Collector holds the validation metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	DocumentsTotal     *prometheus.CounterVec
	FindingsTotal      *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
}

// New creates a collector with all metrics registered on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wfcheck",
				Name:      "documents_total",
				Help:      "Total number of documents checked, by outcome",
			},
			[]string{"result"},
		),
		FindingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wfcheck",
				Name:      "findings_total",
				Help:      "Total number of findings reported, by severity and rule",
			},
			[]string{"severity", "rule"},
		),
		ValidationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "wfcheck",
				Name:      "validation_duration_seconds",
				Help:      "Time spent parsing and validating one document",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),
	}
}

// ObserveDocument records one checked document.
func (c *Collector) ObserveDocument(result string, took time.Duration) {
	if c == nil {
		return
	}
	c.DocumentsTotal.WithLabelValues(result).Inc()
	c.ValidationDuration.Observe(took.Seconds())
}

// ObserveFinding records one finding.
func (c *Collector) ObserveFinding(severity, rule string) {
	if c == nil {
		return
	}
	c.FindingsTotal.WithLabelValues(severity, rule).Inc()
}
