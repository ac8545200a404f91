package topic

import (
	"sort"
	"sync"
	"time"
)

// Registry is a process-wide ordered-insertion mapping of name to Topic.
// Get-or-create is atomic: two concurrent Get calls for the same name
// always return the same *Topic instance.
type Registry struct {
	mu            sync.RWMutex
	topics        map[string]*Topic
	order         []string
	lastClearTime time.Time

	topicOpts []Option
}

// RegistryOption configures a Registry at construction.
type RegistryOption func(*Registry)

// WithTopicOptions applies opts to every Topic the registry creates,
// including ones created after construction. Used to wire a
// metric.Metrics publish hook onto every topic without this package
// depending on the metric package.
func WithTopicOptions(opts ...Option) RegistryOption {
	return func(r *Registry) {
		r.topicOpts = append(r.topicOpts, opts...)
	}
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		topics: make(map[string]*Topic),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the named topic, creating it on first lookup.
func (r *Registry) Get(name string) *Topic {
	r.mu.RLock()
	t, ok := r.topics[name]
	r.mu.RUnlock()
	if ok {
		return t
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.topics[name]; ok {
		return t
	}
	t = NewTopic(name, r.topicOpts...)
	r.topics[name] = t
	r.order = append(r.order, name)
	return t
}

// Has reports whether name has already been created, without creating it.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.topics[name]
	return ok
}

// Topics returns a snapshot enumeration of every topic, in the order each
// was first created. Safe under concurrent Get.
func (r *Registry) Topics() []*Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*Topic, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.topics[name])
	}
	return result
}

// TopicNames returns the sorted names of every topic currently registered.
func (r *Registry) TopicNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.topics))
	for name := range r.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear drops every topic's subscriber, publisher and last-message state,
// then removes every topic from the registry, then records the clear time.
// Safe to call while publishes are in flight: a publish racing with Clear
// may observe either the pre-clear or post-clear topic, and messages
// racing with it may be silently dropped; see the concurrency notes on
// Topic.Publish.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.topics {
		t.ClearAll()
	}
	r.topics = make(map[string]*Topic)
	r.order = nil
	r.lastClearTime = time.Now()
}

// LastClearTime returns the instant of the most recent Clear call, or the
// zero time if Clear has never been called.
func (r *Registry) LastClearTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastClearTime
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the well-known process-wide registry instance, for call
// sites that must remain implicit (primarily cmd/dataflow). Constructors
// elsewhere take an explicit *Registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
