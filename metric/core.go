package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dataflow engine's core observability surface: topic
// throughput, per-agent queue backpressure, message outcomes, and
// configuration load results.
type Metrics struct {
	// TopicPublishes counts every Topic.Publish call, by topic name.
	TopicPublishes *prometheus.CounterVec

	// QueueDepth and QueueCapacity track a ParallelAgent's backing queue,
	// by agent name, via the depth-gauge hook wired from pkg/queue.
	QueueDepth    *prometheus.GaugeVec
	QueueCapacity *prometheus.GaugeVec

	// MessagesProcessed, MessagesDropped, and MessagesFailed count a
	// ParallelAgent's OnMessage outcomes, by agent name. Dropped covers
	// messages silently discarded after Close; failed is reserved for an
	// inner agent that panics or returns an error in a future extension,
	// and is currently always zero.
	MessagesProcessed *prometheus.CounterVec
	MessagesDropped   *prometheus.CounterVec
	MessagesFailed    *prometheus.CounterVec

	// ConfigLoads counts config.Loader.Create calls, by status
	// (success/failure).
	ConfigLoads *prometheus.CounterVec
}

// NewMetrics constructs the core metrics set. Collectors are created but
// not yet registered against any Prometheus registry; NewMetricsRegistry
// does that.
func NewMetrics() *Metrics {
	return &Metrics{
		TopicPublishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "topic",
				Name:      "publishes_total",
				Help:      "Total number of Topic.Publish calls, by topic",
			},
			[]string{"topic"},
		),

		QueueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "flowmesh",
				Subsystem: "agent",
				Name:      "queue_depth",
				Help:      "Current number of items queued for a ParallelAgent's worker",
			},
			[]string{"agent"},
		),

		QueueCapacity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "flowmesh",
				Subsystem: "agent",
				Name:      "queue_capacity",
				Help:      "Configured capacity of a ParallelAgent's queue",
			},
			[]string{"agent"},
		),

		MessagesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "agent",
				Name:      "messages_processed_total",
				Help:      "Total number of messages delivered to an agent's OnMessage",
			},
			[]string{"agent"},
		),

		MessagesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "agent",
				Name:      "messages_dropped_total",
				Help:      "Total number of messages dropped by a closing or closed ParallelAgent",
			},
			[]string{"agent"},
		),

		MessagesFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "agent",
				Name:      "messages_failed_total",
				Help:      "Total number of messages an agent failed to process",
			},
			[]string{"agent"},
		),

		ConfigLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flowmesh",
				Subsystem: "config",
				Name:      "loads_total",
				Help:      "Total number of configuration load attempts, by status",
			},
			[]string{"status"},
		),
	}
}

// RecordPublish increments the publish counter for topic.
func (m *Metrics) RecordPublish(topic string) {
	if m == nil {
		return
	}
	m.TopicPublishes.WithLabelValues(topic).Inc()
}

// RecordQueueDepth sets the current depth/capacity gauges for agent. It
// matches pkg/queue's WithDepthGauge(func(size, capacity int)) signature
// once bound to an agent name by the caller.
func (m *Metrics) RecordQueueDepth(agent string, size, capacity int) {
	if m == nil {
		return
	}
	m.QueueDepth.WithLabelValues(agent).Set(float64(size))
	m.QueueCapacity.WithLabelValues(agent).Set(float64(capacity))
}

// RecordProcessed increments the processed counter for agent.
func (m *Metrics) RecordProcessed(agent string) {
	if m == nil {
		return
	}
	m.MessagesProcessed.WithLabelValues(agent).Inc()
}

// RecordDropped increments the dropped counter for agent.
func (m *Metrics) RecordDropped(agent string) {
	if m == nil {
		return
	}
	m.MessagesDropped.WithLabelValues(agent).Inc()
}

// RecordConfigLoad increments the config-load counter for the given
// outcome.
func (m *Metrics) RecordConfigLoad(success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.ConfigLoads.WithLabelValues(status).Inc()
}
