// Package agent implements the computational units of the dataflow graph:
// the Agent contract, the concrete arithmetic/bitwise/comparison operators,
// and the ParallelAgent decorator that gives any agent its own bounded work
// queue and dedicated worker.
package agent

import (
	"github.com/c360/flowmesh/message"
	"github.com/c360/flowmesh/topic"
)

// Agent is the capability set every computational unit in the graph
// implements. Name is a display label, not an identity, two distinct
// agents may share one. OnMessage has no ordering guarantee across
// concurrent calls unless the agent is wrapped in a ParallelAgent.
//
// Agent satisfies topic.Agent structurally.
type Agent interface {
	Name() string
	Reset()
	OnMessage(topicName string, msg message.Message)
	Close() error
}

var _ topic.Agent = Agent(nil)

// Factory constructs an agent against reg, given the ordered input and
// output topic names parsed from a configuration block. It returns the
// bare agent, not yet subscribed or registered as a publisher anywhere:
// wiring it to reg is the caller's job, so that a caller wrapping the
// result in a ParallelAgent (or any other decorator) can subscribe the
// decorator rather than the agent it wraps. Factories never fail: an
// agent whose contract needs more inputs or outputs than were supplied
// simply never satisfies its publish condition.
type Factory func(inputs, outputs []string, reg *topic.Registry) Agent

// Wireable is implemented by agents that know which of the topic names
// they were constructed with they actually use, letting a caller
// subscribe/register exactly those topics instead of everything a
// configuration block listed. Every factory in this package returns a
// Wireable agent.
type Wireable interface {
	Inputs() []string
	Outputs() []string
}
