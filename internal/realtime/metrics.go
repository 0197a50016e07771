package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use as a nil pointer.
type Metrics struct {
	connections prometheus.Gauge
	events      *prometheus.CounterVec
	deliveries  *prometheus.CounterVec
	dropped     prometheus.Counter
}

// NewMetrics registers collectors on reg; a nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		connections: f.NewGauge(prometheus.GaugeOpts{
			Name: "chat_realtime_connections",
			Help: "Active realtime connections.",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_realtime_events_total",
			Help: "Inbound realtime events by result.",
		}, []string{"event", "result"}),
		deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_realtime_deliveries_total",
			Help: "Frames enqueued to connections.",
		}, []string{"event"}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "chat_realtime_dropped_total",
			Help: "Frames dropped because a connection could not accept them.",
		}),
	}
}

func (m *Metrics) connOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) connClosed() {
	if m != nil {
		m.connections.Dec()
	}
}

func (m *Metrics) event(name string, res Result) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case res.Err != nil:
		result = "rejected"
	case res.Ignored:
		result = "ignored"
	}
	if _, known := handlers[name]; !known {
		name = "unknown"
	}
	m.events.WithLabelValues(name, result).Inc()
}

func (m *Metrics) delivered(event string) {
	if m != nil {
		m.deliveries.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) droppedFrame() {
	if m != nil {
		m.dropped.Inc()
	}
}
