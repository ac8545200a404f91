// Package flowmesh implements a dataflow computation engine: a directed
// bipartite graph of topics and agents, wired together by a text-based
// configuration format and driven through a small runtime API.
//
// # Architecture
//
// A Topic (package topic) is a named channel that retains its last
// published message and fans it out to a subscriber set. An Agent
// (package agent) is anything that can receive a message and, in response,
// publish to the topics it was configured with; the agent package's
// operator agents implement the arithmetic, bitwise and comparison
// primitives the configuration format can instantiate. Every agent a
// configuration loader creates is wrapped in a ParallelAgent, which gives
// it a bounded FIFO queue and a dedicated worker goroutine so one slow or
// stuck agent cannot block the topic that delivers to it.
//
//	┌─────────┐   subscribe    ┌─────────┐   publish    ┌─────────┐
//	│  Topic  │───────────────►│  Agent  │─────────────►│  Topic  │
//	│  (A,B)  │                │ (queue  │               │  (S)   │
//	└─────────┘                │ +worker)│                └─────────┘
//	                            └─────────┘
//
// The configuration package (config) parses the 3-line-per-agent text
// format described in the configuration reference, instantiates agents by
// registered type name, and wires them against a topic.Registry. The
// graph package derives a bipartite Node/Edge view of the live topic and
// agent set and can detect cycles in it. The runtime package is the one
// surface a collaborator (an HTTP handler, a CLI, a test harness) drives
// the whole engine through: load a configuration, publish an external
// value in, and read back topic or graph state.
//
// # Packages
//
//   - message: the Message type, the unit of data flow
//   - topic: the publish/subscribe fabric and its process-wide registry
//   - agent: operator agents and the ParallelAgent queue/worker wrapper
//   - config: the text configuration loader
//   - graph: bipartite graph derivation and cycle detection
//   - metric: Prometheus metrics for topics, agents and config loads
//   - runtime: the engine's own operating layer and external API
//   - errors: structured, classified error handling shared by every package
//   - pkg/queue: the bounded FIFO queue backing ParallelAgent
//   - cmd/dataflow: a terminal front end driving a runtime.Runtime
package flowmesh
