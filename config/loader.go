// Package config implements the configuration loader: it parses a
// 3-line-per-agent text resource, instantiates agents by registered
// type name, wraps each in a ParallelAgent, and wires them against a
// topic registry.
package config

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/flowmesh/agent"
	"github.com/c360/flowmesh/errors"
	"github.com/c360/flowmesh/metric"
	"github.com/c360/flowmesh/topic"
)

// loaderVersion is the current configuration format version.
const loaderVersion = 1

// Loader parses a text configuration resource and owns the list of
// ParallelAgent-wrapped agents it instantiates from it.
type Loader struct {
	reg     *topic.Registry
	metrics *metric.Metrics
	agents  []*agent.ParallelAgent

	drainTimeout  time.Duration
	capacityFloor int
}

// Option configures a Loader at construction.
type Option func(*Loader)

// WithMetrics wires l's created agents and load attempts into m. A nil
// Metrics (the zero value of this option) leaves metrics disabled.
func WithMetrics(m *metric.Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithDrainTimeout overrides the default drain bound every ParallelAgent
// l creates waits for on Close. Zero (the default) leaves each agent's
// own built-in default in place.
func WithDrainTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.drainTimeout = d
	}
}

// WithCapacityFloor raises the minimum queue capacity l sizes a block's
// ParallelAgent with, above agent.MinCapacity. Zero or negative (the
// default) leaves agent.Capacity's own floor in place.
func WithCapacityFloor(floor int) Option {
	return func(l *Loader) {
		l.capacityFloor = floor
	}
}

// NewLoader constructs a loader that wires agents against reg.
func NewLoader(reg *topic.Registry, opts ...Option) *Loader {
	l := &Loader{reg: reg}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the loader's display name.
func (l *Loader) Name() string { return "config.Loader" }

// Version returns the configuration format version this loader
// understands.
func (l *Loader) Version() int { return loaderVersion }

// Agents returns every wrapped agent this loader has created since it
// was constructed or last closed, in construction order. Successive
// Create calls append to the same list.
func (l *Loader) Agents() []*agent.ParallelAgent {
	return append([]*agent.ParallelAgent(nil), l.agents...)
}

// Create reads a UTF-8 text configuration from r, one agent block per
// three lines, and instantiates the agents it describes.
//
// The total line count (after trimming trailing whitespace from each
// line) must be a multiple of 3, or the whole call fails with a
// ParseError and creates nothing. Within that, each block's failures
// (an unregistered agent-type name) are logged and skipped, never
// aborting the rest of the load; agents already created by earlier
// blocks in the same call are retained.
func (l *Loader) Create(r io.Reader) error {
	lines, err := readLines(r)
	if err != nil {
		l.metrics.RecordConfigLoad(false)
		return errors.IoErrorf(err, "config")
	}

	if len(lines)%3 != 0 {
		l.metrics.RecordConfigLoad(false)
		return errors.ParseErrorf("config.Loader", "Create",
			"line count %d is not a multiple of 3", len(lines))
	}

	for i := 0; i+3 <= len(lines); i += 3 {
		typeName := lines[i]
		inputs := splitFields(lines[i+1])
		outputs := splitFields(lines[i+2])

		factory, ok := agent.Lookup(typeName)
		if !ok {
			slog.Warn("config: skipping block with unregistered agent type",
				"type", typeName, "block", i/3,
				"error", errors.ParseErrorf("config.Loader", "Create", "unregistered agent type %q", typeName))
			continue
		}

		inner := factory(inputs, outputs, l.reg)
		name := inner.Name()

		capacity := agent.Capacity(len(inputs))
		if l.capacityFloor > capacity {
			capacity = l.capacityFloor
		}

		opts := []agent.Option{
			agent.WithDepthGauge(func(size, capacity int) {
				l.metrics.RecordQueueDepth(name, size, capacity)
			}),
			agent.WithObservers(
				func() { l.metrics.RecordProcessed(name) },
				func() { l.metrics.RecordDropped(name) },
			),
		}
		if l.drainTimeout > 0 {
			opts = append(opts, agent.WithDrainTimeout(l.drainTimeout))
		}

		wrapped := agent.NewParallelAgent(inner, capacity, opts...)

		// The wrapper, not inner, must be the one subscribed to each input
		// topic and registered as publisher on each output topic: a Topic
		// dispatches directly, synchronously, to whatever it holds, so
		// subscribing inner here would bypass the queue and worker entirely
		// and deliver on the publisher's own goroutine.
		wireInputs, wireOutputs := inputs, outputs
		if w, ok := inner.(agent.Wireable); ok {
			wireInputs, wireOutputs = w.Inputs(), w.Outputs()
		}
		for _, in := range wireInputs {
			l.reg.Get(in).Subscribe(wrapped)
		}
		for _, out := range wireOutputs {
			l.reg.Get(out).AddPublisher(wrapped)
		}

		l.agents = append(l.agents, wrapped)
	}

	l.metrics.RecordConfigLoad(true)
	return nil
}

// ResetAll calls Reset on every wrapped agent's inner agent, sequentially,
// in construction order, without a full reload. It mirrors the source
// system's bulk-reset path used to restore a clean slate in place.
func (l *Loader) ResetAll() {
	for _, a := range l.agents {
		a.Reset()
	}
}

// Close closes every wrapped agent concurrently, one goroutine per
// agent, and returns the first error any of them returns (the rest
// still run to completion regardless), then drops the loader's list.
// Each ParallelAgent's own drain timeout already bounds how long any one
// Close call can take, so closing them concurrently rather than in
// construction order only shortens total shutdown time, it does not
// change any individual agent's drain behavior.
func (l *Loader) Close() error {
	grp := new(errgroup.Group)
	for _, a := range l.agents {
		a := a
		grp.Go(func() error {
			if err := a.Close(); err != nil {
				slog.Warn("config: agent close failed", "agent", a.Name(), "error", err)
				return err
			}
			return nil
		})
	}
	err := grp.Wait()
	l.agents = nil
	return err
}

// readLines splits r into lines, trimming trailing whitespace from
// each. Trailing blank lines are not stripped before counting, matching
// the configuration format's line-count contract.
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// splitFields splits a comma-separated input/output line. A blank line
// yields a single-element slice holding the empty string, matching
// strings.Split's native behavior on an empty input, so no special case
// is needed.
func splitFields(line string) []string {
	return strings.Split(line, ",")
}
