// Package runtime presents the three-call surface a transport
// collaborator drives the dataflow engine through: load a configuration,
// publish a value into it from the outside, and read back the current
// topic and graph state. It is the one package a collaborator (an HTTP
// handler, a CLI, a test harness) needs to import.
package runtime

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"

	"github.com/c360/flowmesh/agent"
	"github.com/c360/flowmesh/config"
	"github.com/c360/flowmesh/errors"
	"github.com/c360/flowmesh/graph"
	"github.com/c360/flowmesh/message"
	"github.com/c360/flowmesh/metric"
	"github.com/c360/flowmesh/topic"
)

// configFilesDir is where uploaded configuration payloads are persisted,
// named by the collaborator; a payload saved under a name that already
// exists overwrites it.
const configFilesDir = "config_files"

// TopicRole classifies a topic by whether it has publishers, subscribers,
// both, or neither, per §6's publish UI guard.
type TopicRole string

const (
	RoleInputOnly    TopicRole = "input-only"
	RoleOutputOnly   TopicRole = "output-only"
	RoleIntermediate TopicRole = "intermediate"
	RoleInactive     TopicRole = "inactive"
)

// classifyRole implements has_pubs/has_subs -> role exactly as §6
// specifies it.
func classifyRole(hasPubs, hasSubs bool) TopicRole {
	switch {
	case hasPubs && !hasSubs:
		return RoleOutputOnly
	case !hasPubs && hasSubs:
		return RoleInputOnly
	case hasPubs && hasSubs:
		return RoleIntermediate
	default:
		return RoleInactive
	}
}

// TopicInfo is one row of TopicSnapshot's result.
type TopicInfo struct {
	Name            string    `json:"name"`
	LastValueText   string    `json:"last_value_text"`
	SubscriberNames []string  `json:"subscriber_names"`
	PublisherNames  []string  `json:"publisher_names"`
	Role            TopicRole `json:"role"`
}

// Runtime owns the live topic registry and the currently-loaded
// configuration, and exposes the §6 operations against them.
type Runtime struct {
	baseDir string

	mu     sync.Mutex
	reg    *topic.Registry
	loader *config.Loader

	cfg     *safeConfig
	metrics *metric.Metrics
	limiter *rate.Limiter
}

// Option configures a Runtime at construction.
type Option func(*Runtime)

// WithMetrics wires m into every topic and agent the runtime creates.
func WithMetrics(m *metric.Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithConfig overrides the default runtime configuration.
func WithConfig(cfg Config) Option {
	return func(rt *Runtime) { rt.cfg = newSafeConfig(cfg) }
}

// WithBaseDir overrides the directory config_files/ is created under
// (default: the current working directory).
func WithBaseDir(dir string) Option {
	return func(rt *Runtime) { rt.baseDir = dir }
}

// New constructs a Runtime with an empty topic registry and no loaded
// configuration.
func New(opts ...Option) *Runtime {
	rt := &Runtime{cfg: newSafeConfig(DefaultConfig())}
	for _, opt := range opts {
		opt(rt)
	}
	rt.limiter = rate.NewLimiter(rate.Limit(rt.cfg.Get().PublishRateLimit), rt.cfg.Get().PublishRateBurst)
	rt.reg = topic.NewRegistry(topic.WithTopicOptions(
		topic.WithPublishHook(func(name string) { rt.metrics.RecordPublish(name) }),
	))
	return rt
}

// LoadConfig replaces the active configuration: it closes the current
// loader if any, clears the registry, and instantiates agents from the
// config file at path, per §4.4.
func (rt *Runtime) LoadConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IoErrorf(err, path)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.loader != nil {
		if err := rt.loader.Close(); err != nil {
			slog.Warn("runtime: closing previous loader failed", "error", err)
		}
	}
	rt.reg.Clear()

	cfg := rt.cfg.Get()
	loader := config.NewLoader(rt.reg,
		config.WithMetrics(rt.metrics),
		config.WithDrainTimeout(cfg.DrainTimeout),
		config.WithCapacityFloor(cfg.QueueCapacityFloor),
	)
	if err := loader.Create(bytes.NewReader(data)); err != nil {
		rt.loader = loader
		return err
	}
	rt.loader = loader
	return nil
}

// SavePayload persists data under config_files/<name>, overwriting any
// existing file of that name, and returns the path it was written to.
// The file name is chosen entirely by the caller.
func (rt *Runtime) SavePayload(name string, data []byte) (string, error) {
	dir := filepath.Join(rt.baseDir, configFilesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.IoErrorf(err, dir)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.IoErrorf(err, path)
	}
	return path, nil
}

// LoadPayload saves data under config_files/<name> and loads it as the
// active configuration in one step, for a transport collaborator that
// receives a config upload rather than a path on disk.
func (rt *Runtime) LoadPayload(name string, data []byte) error {
	path, err := rt.SavePayload(name, data)
	if err != nil {
		return err
	}
	return rt.LoadConfig(path)
}

// Publish resolves topicName in the registry (it must already exist),
// rejects the call if the topic's role is output-only or intermediate
// (input-only and inactive topics are accepted), rate-limits
// the attempt, and publishes text as a new Message.
func (rt *Runtime) Publish(ctx context.Context, topicName, text string) error {
	if !rt.reg.Has(topicName) {
		return errors.NotFoundErrorf(topicName)
	}

	t := rt.reg.Get(topicName)
	role := classifyRole(len(t.Publishers()) > 0, len(t.Subscribers()) > 0)
	if role != RoleInputOnly && role != RoleInactive {
		return errors.ProtectedTopicErrorf(topicName, string(role))
	}

	if err := rt.limiter.Wait(ctx); err != nil {
		return errors.WrapTransient(err, "runtime", "Publish", "rate limit wait")
	}

	t.Publish(message.NewFromText(text))
	return nil
}

// TopicSnapshot returns a (name, last_value_text, subscriber_names,
// publisher_names, role) row for every topic the registry has seen, per
// §6.
func (rt *Runtime) TopicSnapshot() []TopicInfo {
	topics := rt.reg.Topics()
	infos := make([]TopicInfo, 0, len(topics))
	for _, t := range topics {
		subs := t.Subscribers()
		pubs := t.Publishers()
		infos = append(infos, TopicInfo{
			Name:            t.Name(),
			LastValueText:   t.LastValueText(),
			SubscriberNames: agentNames(subs),
			PublisherNames:  agentNames(pubs),
			Role:            classifyRole(len(pubs) > 0, len(subs) > 0),
		})
	}
	return infos
}

func agentNames(agents []topic.Agent) []string {
	names := make([]string, len(agents))
	for i, a := range agents {
		names[i] = a.Name()
	}
	return names
}

// GraphSnapshot returns the current bipartite topic/agent graph, per §4.5.
func (rt *Runtime) GraphSnapshot() *graph.Graph {
	return graph.Build(rt.reg)
}

// ResetAll resets every agent in the currently-loaded configuration back
// to its zero state in place, without reloading the configuration file
// or touching the registry's topic set. A no-op if no configuration is
// loaded.
func (rt *Runtime) ResetAll() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.loader == nil {
		return
	}
	rt.loader.ResetAll()
}

// Close closes the currently-loaded configuration's agents, if any.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.loader == nil {
		return nil
	}
	err := rt.loader.Close()
	rt.loader = nil
	return err
}

// Capacity exposes agent.Capacity adjusted by the runtime's configured
// queue-capacity floor. LoadConfig applies the same floor internally via
// config.WithCapacityFloor; this is for a collaborator that needs to
// predict an agent's queue size without going through LoadConfig.
func (rt *Runtime) Capacity(inputCount int) int {
	floor := rt.cfg.Get().QueueCapacityFloor
	if c := agent.Capacity(inputCount); c > floor {
		return c
	}
	return floor
}
