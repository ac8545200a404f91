package agent

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/c360/flowmesh/errors"
	"github.com/c360/flowmesh/message"
	"github.com/c360/flowmesh/pkg/queue"
)

// parallelState is the ParallelAgent lifecycle: running -> stopping ->
// stopped. Transitions only move forward.
type parallelState int32

const (
	stateRunning parallelState = iota
	stateStopping
	stateStopped
)

// defaultDrainTimeout bounds how long Close waits for the worker to drain
// the queue before giving up and making forward progress anyway.
const defaultDrainTimeout = 2 * time.Second

// MinCapacity is the floor ParallelAgent capacities are clamped to,
// regardless of what the configuration loader's sizing formula computes.
const MinCapacity = 10

// ParallelAgent decorates an inner Agent with a bounded FIFO work queue
// and a single dedicated worker goroutine, so the inner agent's
// on_message calls are always invoked sequentially, in enqueue order,
// off of whatever goroutine is publishing.
type ParallelAgent struct {
	inner Agent
	q     *queue.Queue

	state atomic.Int32

	acceptCtx    context.Context
	stopAccept   context.CancelFunc
	workerDone   chan struct{}
	drainTimeout time.Duration

	queueOpts   []queue.Option
	onProcessed func()
	onDropped   func()
}

// Option configures a ParallelAgent at construction.
type Option func(*ParallelAgent)

// WithDrainTimeout overrides the default 2-second bound Close waits for
// the worker to drain before proceeding anyway.
func WithDrainTimeout(d time.Duration) Option {
	return func(pa *ParallelAgent) {
		pa.drainTimeout = d
	}
}

// WithDepthGauge reports the queue's size and capacity to set every time
// either changes, for wiring a metric.Metrics queue-depth gauge without
// this package depending on the metric package directly.
func WithDepthGauge(set func(size, capacity int)) Option {
	return func(pa *ParallelAgent) {
		pa.queueOpts = append(pa.queueOpts, queue.WithDepthGauge(set))
	}
}

// WithObservers registers callbacks invoked after a message is delivered
// to the inner agent (onProcessed) and after one is dropped because the
// wrapper was closing (onDropped), for wiring metric.Metrics counters.
func WithObservers(onProcessed, onDropped func()) Option {
	return func(pa *ParallelAgent) {
		pa.onProcessed = onProcessed
		pa.onDropped = onDropped
	}
}

// NewParallelAgent wraps inner with a queue of the given capacity and
// starts its dedicated worker immediately, entering the running state.
func NewParallelAgent(inner Agent, capacity int, opts ...Option) *ParallelAgent {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	ctx, cancel := context.WithCancel(context.Background())
	pa := &ParallelAgent{
		inner:        inner,
		acceptCtx:    ctx,
		stopAccept:   cancel,
		workerDone:   make(chan struct{}),
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(pa)
	}
	pa.q = queue.New(capacity, pa.queueOpts...)
	go pa.run()
	return pa
}

// Capacity returns the formula max(10, 5*inputCount) the configuration
// loader uses to size a ParallelAgent's queue.
func Capacity(inputCount int) int {
	if c := 5 * inputCount; c > MinCapacity {
		return c
	}
	return MinCapacity
}

// Name returns the inner agent's display name.
func (pa *ParallelAgent) Name() string { return pa.inner.Name() }

// Reset invokes Reset on the inner agent directly on the caller's
// goroutine, not via the queue. A caller needing atomicity with any
// in-flight enqueued work must externally quiesce first.
func (pa *ParallelAgent) Reset() { pa.inner.Reset() }

// OnMessage enqueues (topicName, msg) for the dedicated worker to
// deliver to the inner agent. It blocks while the queue is full,
// providing backpressure to the publisher. If the wrapper is closing
// when the caller would otherwise block, the enqueue is cancelled and
// the message is dropped silently, no error reaches the publisher.
func (pa *ParallelAgent) OnMessage(topicName string, msg message.Message) {
	if err := pa.q.Enqueue(pa.acceptCtx, queue.Item{Topic: topicName, Message: msg}); err != nil {
		if pa.onDropped != nil {
			pa.onDropped()
		}
	}
}

// QueueDepth returns the number of items currently queued, for
// observability.
func (pa *ParallelAgent) QueueDepth() int { return pa.q.Size() }

// QueueCapacity returns the queue's fixed capacity.
func (pa *ParallelAgent) QueueCapacity() int { return pa.q.Capacity() }

// Close transitions to stopping, stops accepting new work, waits up to
// the configured drain timeout for the worker to empty the queue and
// exit, then closes the inner agent regardless of whether the drain
// completed in time: shutdown must make forward progress.
func (pa *ParallelAgent) Close() error {
	if !pa.state.CompareAndSwap(int32(stateRunning), int32(stateStopping)) {
		return nil
	}

	pa.stopAccept()
	pa.q.Close()

	select {
	case <-pa.workerDone:
	case <-time.After(pa.drainTimeout):
		slog.Warn("parallel agent drain timed out, closing anyway",
			"agent", pa.inner.Name(),
			"error", errors.ResourceErrorf(pa.inner.Name(), pa.drainTimeout))
	}

	pa.state.Store(int32(stateStopped))
	return pa.inner.Close()
}

// run is the dedicated worker: it repeatedly dequeues and delivers to
// the inner agent, in strict enqueue order, until the queue is closed
// and drained.
func (pa *ParallelAgent) run() {
	defer close(pa.workerDone)
	for {
		item, ok, err := pa.q.Dequeue(context.Background())
		if err != nil || !ok {
			return
		}
		msg, _ := item.Message.(message.Message)
		pa.inner.OnMessage(item.Topic, msg)
		if pa.onProcessed != nil {
			pa.onProcessed()
		}
	}
}
