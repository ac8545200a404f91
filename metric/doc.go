// Package metric provides the dataflow engine's Prometheus-based
// observability surface: a duplicate-safe registration wrapper
// (MetricsRegistry) around a prometheus.Registry, and the engine's own
// counters and gauges (Metrics) for topic throughput, per-agent queue
// backpressure, message outcomes, and configuration load results.
//
// Metrics are optional throughout: every Metrics method is safe to call
// on a nil receiver, so a component built without a MetricsRegistry
// behaves exactly as if metrics did not exist.
package metric
