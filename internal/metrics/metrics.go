package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "openmovie"

// Recorder holds the application's Prometheus collectors.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	requestDuration *prometheus.HistogramVec
	emissions       *prometheus.CounterVec
	stateUpdates    *prometheus.CounterVec
}

// New creates a Recorder and registers its collectors on reg
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tmdb",
			Name:      "request_duration_seconds",
			Help:      "Duration of TMDb list requests by endpoint and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
		emissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "repository",
			Name:      "emissions_total",
			Help:      "Response states emitted by the movie repository.",
		}, []string{"stream", "state"}),
		stateUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "home",
			Name:      "state_updates_total",
			Help:      "Snapshot replacements applied to the home state.",
		}, []string{"stream", "state"}),
	}

	reg.MustRegister(r.requestDuration, r.emissions, r.stateUpdates)
	return r
}

// ObserveRequest records one TMDb request
func (r *Recorder) ObserveRequest(endpoint, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.requestDuration.WithLabelValues(endpoint, outcome).Observe(d.Seconds())
}

// RecordEmission counts a state emitted by a repository stream
func (r *Recorder) RecordEmission(stream, state string) {
	if r == nil {
		return
	}
	r.emissions.WithLabelValues(stream, state).Inc()
}

// RecordStateUpdate counts a snapshot replacement applied by the home controller
func (r *Recorder) RecordStateUpdate(stream, state string) {
	if r == nil {
		return
	}
	r.stateUpdates.WithLabelValues(stream, state).Inc()
}
