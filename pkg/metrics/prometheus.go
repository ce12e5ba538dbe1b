package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the simulation's metrics.
type Manager struct {
	namespace       string
	subsystem       string
	durationBuckets []float64
	tickBuckets     []float64
	enabled         bool
	registry        prometheus.Registerer

	racesStarted    prometheus.Counter
	racesFinished   *prometheus.CounterVec
	raceDuration    prometheus.Histogram
	tickDuration    prometheus.Histogram
	drawCalls       prometheus.Gauge
	textureFailures prometheus.Counter
	strokes         *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics singleton

// customRegistry keeps Go runtime collectors out of the exposition.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "swimrace",
		durationBuckets: []float64{10, 15, 20, 25, 30, 40, 60, 90, 120},
		tickBuckets:     prometheus.ExponentialBuckets(0.0001, 2, 12),
		enabled:         true,
		registry:        prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.racesStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "race_started_total",
		Help:      "Races that left the start line",
	})

	m.racesFinished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "race_finished_total",
		Help:      "Finished races by winner label",
	}, []string{"winner"})

	m.raceDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "race_duration_seconds",
		Help:      "Simulated time from start to first finisher",
		Buckets:   m.durationBuckets,
	})

	m.tickDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tick_duration_seconds",
		Help:      "Wall time spent in one simulation tick plus frame assembly",
		Buckets:   m.tickBuckets,
	})

	m.drawCalls = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "draw_calls",
		Help:      "Draw calls submitted in the last frame",
	})

	m.textureFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "texture_failures_total",
		Help:      "Textures that could not be loaded",
	})

	m.strokes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "strokes_total",
		Help:      "Stroke boosts applied, by lane",
	}, []string{"lane"})
}

func (m *Manager) RaceStarted() {
	if m.enabled {
		m.racesStarted.Inc()
	}
}

func (m *Manager) RaceFinished(winner string, seconds float64) {
	if !m.enabled {
		return
	}
	m.racesFinished.WithLabelValues(winner).Inc()
	m.raceDuration.Observe(seconds)
}

func (m *Manager) Tick(seconds float64) {
	if m.enabled {
		m.tickDuration.Observe(seconds)
	}
}

func (m *Manager) DrawCalls(n int) {
	if m.enabled {
		m.drawCalls.Set(float64(n))
	}
}

func (m *Manager) TextureFailure() {
	if m.enabled {
		m.textureFailures.Inc()
	}
}

func (m *Manager) Stroke(lane string) {
	if m.enabled {
		m.strokes.WithLabelValues(lane).Inc()
	}
}

// Get returns the global manager.
func Get() *Manager { return globalManager }

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry { return customRegistry }
