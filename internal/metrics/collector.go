// Package metrics exposes orbit simulation telemetry. [Collector] feeds a
// private Prometheus registry from driver callbacks; [EnergyDrift] and
// [Stability] are plain accumulators usable from tests and CLI reports.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/scene"
)

const namespace = "orbitsim"

// Collector implements driver.Observer. Its callbacks run on the driver
// goroutine; the registry may be scraped concurrently.
type Collector struct {
	registry *prometheus.Registry

	framesTotal   prometheus.Counter
	restartsTotal *prometheus.CounterVec
	tickDuration  prometheus.Histogram
	trailPoints   prometheus.Gauge
	energyDrift   prometheus.Gauge
	orbitRadius   prometheus.Gauge
	orbitEnergy   prometheus.Gauge

	drift *EnergyDrift
}

func NewCollector() *Collector {
	m := &Collector{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_total",
				Help:      "Total number of frames composed",
			},
		),
		restartsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "restarts_total",
				Help:      "Orbit restarts by force law",
			},
			[]string{"law"},
		),
		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tick_duration_seconds",
				Help:      "Time spent stepping and composing one frame",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		trailPoints: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "trail_points",
				Help:      "Number of points currently in the trail",
			},
		),
		energyDrift: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "energy_drift_ratio",
				Help:      "Worst relative energy drift since the last restart",
			},
		),
		orbitRadius: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "orbit_radius",
				Help:      "Current distance of the body from the sun",
			},
		),
		orbitEnergy: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "orbit_energy",
				Help:      "Current specific orbital energy",
			},
		),
		drift: NewEnergyDrift(nil),
	}

	m.registry.MustRegister(
		m.framesTotal,
		m.restartsTotal,
		m.tickDuration,
		m.trailPoints,
		m.energyDrift,
		m.orbitRadius,
		m.orbitEnergy,
		collectors.NewGoCollector(),
	)
	for _, law := range physics.Laws() {
		m.restartsTotal.WithLabelValues(law.String())
	}
	return m
}

func (m *Collector) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Collector) OnRestart(run uint64, p physics.Params) {
	m.restartsTotal.WithLabelValues(p.Law.String()).Inc()
	m.drift.Reset()
	m.energyDrift.Set(0)
}

func (m *Collector) OnFrame(f *scene.Frame, elapsed time.Duration) {
	m.framesTotal.Inc()
	m.tickDuration.Observe(elapsed.Seconds())
	m.trailPoints.Set(float64(f.TrailLen))
	m.orbitRadius.Set(f.Body.Norm())
	m.orbitEnergy.Set(f.Energy)

	m.drift.ObserveEnergy(f.Energy)
	m.energyDrift.Set(m.drift.Value())
}

// Handler serves the collector's registry in the Prometheus text format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
