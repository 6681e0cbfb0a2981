// Package metrics exposes the server's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the game loop updates.
type Metrics struct {
	registry *prometheus.Registry

	ConnectedSessions prometheus.Gauge
	PlayersOnline     prometheus.Gauge
	Ticks             prometheus.Counter
	TickDuration      prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ConnectedSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "emberworld_connected_sessions",
			Help: "Open websocket sessions, authenticated or not.",
		}),
		PlayersOnline: factory.NewGauge(prometheus.GaugeOpts{
			Name: "emberworld_players_online",
			Help: "Players currently in the world.",
		}),
		Ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "emberworld_ticks_total",
			Help: "Game loop ticks since start.",
		}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "emberworld_tick_duration_seconds",
			Help:    "Wall time spent inside one tick.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
