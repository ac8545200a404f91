// Package topic implements the publish/subscribe fabric: named channels
// that retain their last published message and dispatch to a subscriber
// set, plus a process-wide registry of them.
package topic

import (
	"sync"

	"github.com/c360/flowmesh/message"
)

// Agent is the minimal surface a topic needs from an agent: a display
// name (for graph enumeration, not for identity) and a delivery method.
// Subscriber/publisher identity is the Agent value itself: two agents
// with the same Name are still distinct subscribers if they are different
// values.
//
// agent.Agent satisfies this interface structurally; this package never
// imports agent to avoid a cycle (agent.Agent needs a *topic.Registry to
// subscribe/publish against).
type Agent interface {
	Name() string
	OnMessage(topicName string, msg message.Message)
}

// Topic is a named channel. Its subscriber and publisher sets are held as
// immutable slices that are replaced wholesale on every mutation, never
// edited in place, which is what lets Publish take a snapshot under a
// brief lock and then dispatch without holding any lock, safe against
// concurrent Subscribe/Unsubscribe.
type Topic struct {
	name string

	mu          sync.RWMutex
	subscribers []Agent
	publishers  []Agent
	lastMessage message.Message

	onPublish func(topicName string)
}

// Option configures a Topic at construction.
type Option func(*Topic)

// WithPublishHook registers a callback invoked with the topic's name on
// every Publish call, for wiring a metric.Metrics publish counter
// without this package depending on the metric package directly.
func WithPublishHook(hook func(topicName string)) Option {
	return func(t *Topic) {
		t.onPublish = hook
	}
}

// NewTopic constructs an empty topic with the given name.
func NewTopic(name string, opts ...Option) *Topic {
	t := &Topic{name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the topic's name.
func (t *Topic) Name() string {
	return t.name
}

// Subscribe adds agent to the subscriber set if not already present.
// Idempotent: a duplicate Subscribe is a no-op.
func (t *Topic) Subscribe(agent Agent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if containsAgent(t.subscribers, agent) {
		return
	}
	t.subscribers = appendAgent(t.subscribers, agent)
}

// Unsubscribe removes agent from the subscriber set if present.
func (t *Topic) Unsubscribe(agent Agent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = removeAgent(t.subscribers, agent)
}

// AddPublisher adds agent to the publisher set if not already present.
func (t *Topic) AddPublisher(agent Agent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if containsAgent(t.publishers, agent) {
		return
	}
	t.publishers = appendAgent(t.publishers, agent)
}

// RemovePublisher removes agent from the publisher set if present.
func (t *Topic) RemovePublisher(agent Agent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publishers = removeAgent(t.publishers, agent)
}

// Publish sets the topic's last message, then invokes OnMessage on every
// subscriber present at the moment of the call, in the order held by the
// current subscriber snapshot. A Subscribe that races with Publish becomes
// visible starting with the next Publish call, never the in-flight one.
func (t *Topic) Publish(msg message.Message) {
	t.mu.Lock()
	t.lastMessage = msg
	subscribers := t.subscribers
	hook := t.onPublish
	t.mu.Unlock()

	if hook != nil {
		hook(t.name)
	}

	for _, sub := range subscribers {
		sub.OnMessage(t.name, msg)
	}
}

// LastMessage returns the most recently published message, or nil if the
// topic has never been published to.
func (t *Topic) LastMessage() message.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastMessage
}

// LastValueText returns the last message's text view, or "N/A" if the
// topic has never been published to.
func (t *Topic) LastValueText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.lastMessage == nil {
		return "N/A"
	}
	return t.lastMessage.Text()
}

// Subscribers returns a snapshot of the current subscriber set.
func (t *Topic) Subscribers() []Agent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.subscribers
}

// Publishers returns a snapshot of the current publisher set.
func (t *Topic) Publishers() []Agent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.publishers
}

// ClearAll drops the subscriber set, publisher set, and last message.
func (t *Topic) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = nil
	t.publishers = nil
	t.lastMessage = nil
}

func containsAgent(agents []Agent, agent Agent) bool {
	for _, a := range agents {
		if a == agent {
			return true
		}
	}
	return false
}

// appendAgent returns a new slice with agent appended, never mutating the
// backing array of agents so that any reader holding the old slice header
// keeps seeing the pre-append set.
func appendAgent(agents []Agent, agent Agent) []Agent {
	next := make([]Agent, len(agents), len(agents)+1)
	copy(next, agents)
	return append(next, agent)
}

// removeAgent returns a new slice with agent removed, if present.
func removeAgent(agents []Agent, agent Agent) []Agent {
	idx := -1
	for i, a := range agents {
		if a == agent {
			idx = i
			break
		}
	}
	if idx == -1 {
		return agents
	}
	next := make([]Agent, 0, len(agents)-1)
	next = append(next, agents[:idx]...)
	next = append(next, agents[idx+1:]...)
	return next
}
