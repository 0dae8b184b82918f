// Package metrics provides Prometheus metrics for the game loop.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the game's collectors and the registry they live in.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	framesProcessed prometheus.Counter
	captureFailures prometheus.Counter
	detectErrors    prometheus.Counter
	handsDetected   prometheus.Counter
	gestures        *prometheus.CounterVec
	rounds          *prometheus.CounterVec
	frameDuration   prometheus.Histogram
}

// NewManager creates a manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "handgame",
		subsystem:        "loop",
		histogramBuckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_processed_total",
		Help:      "Total number of camera frames run through the loop",
	})

	m.captureFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "capture_failures_total",
		Help:      "Total number of frames the camera failed to deliver",
	})

	m.detectErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "detect_errors_total",
		Help:      "Total number of hand detector failures",
	})

	m.handsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_with_hand_total",
		Help:      "Total number of frames in which at least one hand was detected",
	})

	m.gestures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "gestures_classified_total",
			Help:      "Total number of classified gestures by result",
		},
		[]string{"gesture"},
	)

	m.rounds = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rounds_total",
			Help:      "Total number of resolved rounds by outcome",
		},
		[]string{"outcome"},
	)

	m.frameDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_duration_seconds",
		Help:      "Time spent processing one frame, capture to key poll",
		Buckets:   m.histogramBuckets,
	})
}

// RecordFrame counts a processed frame and its duration.
func (m *Manager) RecordFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.framesProcessed.Inc()
	m.frameDuration.Observe(d.Seconds())
}

// RecordCaptureFailure counts a failed frame read.
func (m *Manager) RecordCaptureFailure() {
	if m == nil {
		return
	}
	m.captureFailures.Inc()
}

// RecordDetectError counts a detector failure.
func (m *Manager) RecordDetectError() {
	if m == nil {
		return
	}
	m.detectErrors.Inc()
}

// RecordHand counts a frame with a hand in it.
func (m *Manager) RecordHand() {
	if m == nil {
		return
	}
	m.handsDetected.Inc()
}

// RecordGesture counts a classification by its label.
func (m *Manager) RecordGesture(label string) {
	if m == nil {
		return
	}
	m.gestures.WithLabelValues(label).Inc()
}

// RecordRound counts a resolved round by outcome.
func (m *Manager) RecordRound(outcome string) {
	if m == nil {
		return
	}
	m.rounds.WithLabelValues(outcome).Inc()
}

// Registry returns the registry the collectors are registered with.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
