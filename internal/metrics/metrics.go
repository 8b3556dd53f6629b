// Package metrics counts digestion and enumeration work. A nil *Recorder is
// valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dnamix"

// Recorder owns a private registry so that several runs in one process do not
// collide on the default one.
type Recorder struct {
	registry   *prometheus.Registry
	digests    *prometheus.CounterVec
	fragments  *prometheus.CounterVec
	assemblies *prometheus.CounterVec
	visits     *prometheus.CounterVec
	exceeded   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		digests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_total",
			Help:      "Constructs digested, by digestion mode.",
		}, []string{"mode"}),
		fragments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_total",
			Help:      "Fragments produced by digestion, by digestion mode.",
		}, []string{"mode"}),
		assemblies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assemblies_total",
			Help:      "Assemblies reported, by topology.",
		}, []string{"topology"}),
		visits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_visits_total",
			Help:      "Graph nodes pushed during enumeration, by topology.",
		}, []string{"topology"}),
		exceeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_exceeded_total",
			Help:      "Enumerations stopped by their search budget, by topology.",
		}, []string{"topology"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enumeration_seconds",
			Help:      "Wall time of enumerations, by topology.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"topology"}),
	}
	r.registry.MustRegister(r.digests, r.fragments, r.assemblies, r.visits, r.exceeded, r.duration)
	return r
}

// Registry exposes the underlying registry, for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Digested records one digested construct.
func (r *Recorder) Digested(mode string, fragments int) {
	if r == nil {
		return
	}
	r.digests.WithLabelValues(mode).Inc()
	r.fragments.WithLabelValues(mode).Add(float64(fragments))
}

// Enumerated records one finished enumeration.
func (r *Recorder) Enumerated(topology string, results, visits int, exceeded bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.assemblies.WithLabelValues(topology).Add(float64(results))
	r.visits.WithLabelValues(topology).Add(float64(visits))
	if exceeded {
		r.exceeded.WithLabelValues(topology).Inc()
	}
	r.duration.WithLabelValues(topology).Observe(elapsed.Seconds())
}

// WriteTextfile writes every metric in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
