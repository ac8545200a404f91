// Package queue implements the bounded, blocking FIFO work queue that backs
// agent.ParallelAgent: a single producer-facing Enqueue and a single
// consumer-facing Dequeue over a fixed-capacity ring buffer, with
// backpressure on a full queue instead of drop-oldest/drop-newest policies.
package queue

import (
	"context"
	"sync"

	"github.com/c360/flowmesh/errors"
)

// Item is the unit of work a ParallelAgent enqueues: the name of the topic
// that delivered the message, and the message itself.
type Item struct {
	Topic   string
	Message interface{}
}

// Queue is a fixed-capacity FIFO ring buffer. Enqueue blocks while the
// queue is full; Dequeue blocks while the queue is empty. Both accept a
// context for cancellable waiting. Once Close has been called, Enqueue
// returns an error, while Dequeue keeps returning queued items and then
// reports ok=false with a nil error.
type Queue struct {
	mu       sync.Mutex
	items    []Item
	capacity int
	size     int
	head     int
	tail     int
	closed   bool

	notEmpty *sync.Cond
	notFull  *sync.Cond

	depth *depthGauge
}

// depthGauge is the optional metrics hook set via WithDepthGauge. Kept as
// a plain callback here so this package never imports metric directly.
type depthGauge struct {
	set func(size, capacity int)
}

// Option configures a Queue at construction.
type Option func(*Queue)

// WithDepthGauge registers a callback invoked after every Enqueue/Dequeue
// with the queue's current size and capacity, for exporting as a gauge.
func WithDepthGauge(set func(size, capacity int)) Option {
	return func(q *Queue) {
		q.depth = &depthGauge{set: set}
	}
}

// New constructs a queue of the given capacity. A non-positive capacity is
// rounded up to 1.
func New(capacity int, opts ...Option) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	q := &Queue{
		items:    make([]Item, capacity),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Capacity returns the queue's fixed capacity.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Size returns the number of items currently queued.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Enqueue blocks until there is room for item, ctx is cancelled, or the
// queue is closed.
func (q *Queue) Enqueue(ctx context.Context, item Item) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errors.WrapInvalid(errors.ErrAlreadyStopped, "queue", "Enqueue", "queue closed")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.notFull.Broadcast()
			q.mu.Unlock()
		case <-done:
		}
	}()

	for q.size == q.capacity && !q.closed {
		if err := ctx.Err(); err != nil {
			return err
		}
		q.notFull.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.closed {
		return errors.WrapInvalid(errors.ErrAlreadyStopped, "queue", "Enqueue", "queue closed during wait")
	}

	q.items[q.head] = item
	q.head = (q.head + 1) % q.capacity
	q.size++
	q.notEmpty.Signal()
	q.reportDepth()
	return nil
}

// Dequeue blocks until an item is available, ctx is cancelled, or the
// queue is closed and drained. ok is false only when the queue is closed
// and empty.
func (q *Queue) Dequeue(ctx context.Context) (item Item, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.notEmpty.Broadcast()
			q.mu.Unlock()
		case <-done:
		}
	}()

	for q.size == 0 && !q.closed {
		if cerr := ctx.Err(); cerr != nil {
			return Item{}, false, cerr
		}
		q.notEmpty.Wait()
	}
	if cerr := ctx.Err(); cerr != nil {
		return Item{}, false, cerr
	}
	if q.size == 0 {
		return Item{}, false, nil
	}

	item = q.items[q.tail]
	q.items[q.tail] = Item{}
	q.tail = (q.tail + 1) % q.capacity
	q.size--
	q.notFull.Signal()
	q.reportDepth()
	return item, true, nil
}

// Close marks the queue closed: blocked Enqueue calls fail, and blocked
// Dequeue calls return once the queue has drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

func (q *Queue) reportDepth() {
	if q.depth == nil {
		return
	}
	q.depth.set(q.size, q.capacity)
}
