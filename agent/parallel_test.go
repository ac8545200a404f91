package agent

import (
	"sync"
	"testing"
	"time"

	"github.com/c360/flowmesh/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sequencingAgent struct {
	name string
	mu   sync.Mutex
	seen []string
}

func (a *sequencingAgent) Name() string { return a.name }
func (a *sequencingAgent) Reset()       { a.mu.Lock(); a.seen = nil; a.mu.Unlock() }
func (a *sequencingAgent) Close() error { return nil }
func (a *sequencingAgent) OnMessage(topicName string, msg message.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seen = append(a.seen, msg.Text())
}
func (a *sequencingAgent) snapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.seen...)
}

func TestParallelAgent_DeliversInEnqueueOrder(t *testing.T) {
	inner := &sequencingAgent{name: "inner"}
	pa := NewParallelAgent(inner, 10)
	defer pa.Close()

	for i := 0; i < 20; i++ {
		pa.OnMessage("t", message.NewFromNumber(float64(i)))
	}

	require.Eventually(t, func() bool { return len(inner.snapshot()) == 20 }, time.Second, time.Millisecond)
	seen := inner.snapshot()
	for i := 0; i < 20; i++ {
		assert.Equal(t, message.NewFromNumber(float64(i)).Text(), seen[i])
	}
}

func TestParallelAgent_CapacityOneStillSerializes(t *testing.T) {
	inner := &sequencingAgent{name: "inner"}
	pa := NewParallelAgent(inner, 1)
	defer pa.Close()

	for i := 0; i < 5; i++ {
		pa.OnMessage("t", message.NewFromNumber(float64(i)))
	}
	require.Eventually(t, func() bool { return len(inner.snapshot()) == 5 }, time.Second, time.Millisecond)
}

func TestParallelAgent_Capacity_ClampsToMinimum(t *testing.T) {
	pa := NewParallelAgent(&sequencingAgent{name: "inner"}, 1)
	defer pa.Close()
	assert.Equal(t, MinCapacity, pa.QueueCapacity())
}

func TestCapacity_Formula(t *testing.T) {
	assert.Equal(t, MinCapacity, Capacity(0))
	assert.Equal(t, MinCapacity, Capacity(1))
	assert.Equal(t, 15, Capacity(3))
	assert.Equal(t, 50, Capacity(10))
}

func TestParallelAgent_NameDelegatesToInner(t *testing.T) {
	pa := NewParallelAgent(&sequencingAgent{name: "inc"}, 10)
	defer pa.Close()
	assert.Equal(t, "inc", pa.Name())
}

func TestParallelAgent_Reset_RunsOnInnerDirectly(t *testing.T) {
	inner := &sequencingAgent{name: "inner"}
	pa := NewParallelAgent(inner, 10)
	defer pa.Close()

	pa.OnMessage("t", message.NewFromNumber(1))
	require.Eventually(t, func() bool { return len(inner.snapshot()) == 1 }, time.Second, time.Millisecond)

	pa.Reset()
	assert.Empty(t, inner.snapshot())
}

func TestParallelAgent_Close_DrainsThenClosesInner(t *testing.T) {
	inner := &sequencingAgent{name: "inner"}
	pa := NewParallelAgent(inner, 10)

	for i := 0; i < 3; i++ {
		pa.OnMessage("t", message.NewFromNumber(float64(i)))
	}

	require.NoError(t, pa.Close())
	assert.Len(t, inner.snapshot(), 3)
}

func TestParallelAgent_Close_IsIdempotent(t *testing.T) {
	pa := NewParallelAgent(&sequencingAgent{name: "inner"}, 10)
	require.NoError(t, pa.Close())
	require.NoError(t, pa.Close())
}

func TestParallelAgent_OnMessageAfterClose_DropsSilently(t *testing.T) {
	inner := &sequencingAgent{name: "inner"}
	pa := NewParallelAgent(inner, 10)
	require.NoError(t, pa.Close())

	pa.OnMessage("t", message.NewFromNumber(1))
	assert.Empty(t, inner.snapshot())
}

func TestParallelAgent_QueueDepthReflectsBacklog(t *testing.T) {
	inner := &blockingAgent{release: make(chan struct{})}
	pa := NewParallelAgent(inner, 10)
	defer func() {
		close(inner.release)
		pa.Close()
	}()

	pa.OnMessage("t", message.NewFromNumber(1))
	pa.OnMessage("t", message.NewFromNumber(2))
	require.Eventually(t, func() bool { return pa.QueueDepth() >= 1 }, time.Second, time.Millisecond)
}

type blockingAgent struct {
	name    string
	release chan struct{}
}

func (a *blockingAgent) Name() string { return a.name }
func (a *blockingAgent) Reset()       {}
func (a *blockingAgent) Close() error { return nil }
func (a *blockingAgent) OnMessage(string, message.Message) {
	<-a.release
}
