package topic

import (
	"sync"
	"testing"

	"github.com/c360/flowmesh/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAgent struct {
	name     string
	mu       sync.Mutex
	received []string
}

func newRecordingAgent(name string) *recordingAgent {
	return &recordingAgent{name: name}
}

func (a *recordingAgent) Name() string { return a.name }

func (a *recordingAgent) OnMessage(topicName string, msg message.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.received = append(a.received, msg.Text())
}

func (a *recordingAgent) texts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.received...)
}

func TestTopic_PublishDeliversToSubscribers(t *testing.T) {
	top := NewTopic("A")
	agent := newRecordingAgent("inc")
	top.Subscribe(agent)

	top.Publish(message.NewFromText("6.0"))

	assert.Equal(t, []string{"6.0"}, agent.texts())
	assert.Equal(t, "6.0", top.LastValueText())
}

func TestTopic_LastValueText_EmptyIsNA(t *testing.T) {
	top := NewTopic("A")
	assert.Equal(t, "N/A", top.LastValueText())
	assert.Nil(t, top.LastMessage())
}

func TestTopic_DuplicateSubscribeIsNoop(t *testing.T) {
	top := NewTopic("A")
	agent := newRecordingAgent("inc")
	top.Subscribe(agent)
	top.Subscribe(agent)
	assert.Len(t, top.Subscribers(), 1)
}

func TestTopic_UnsubscribeRemoves(t *testing.T) {
	top := NewTopic("A")
	agent := newRecordingAgent("inc")
	top.Subscribe(agent)
	top.Unsubscribe(agent)
	assert.Empty(t, top.Subscribers())

	top.Publish(message.NewFromText("1"))
	assert.Empty(t, agent.texts())
}

func TestTopic_SameNameDistinctAgentsAreDistinctSubscribers(t *testing.T) {
	top := NewTopic("A")
	first := newRecordingAgent("inc")
	second := newRecordingAgent("inc")
	top.Subscribe(first)
	top.Subscribe(second)
	assert.Len(t, top.Subscribers(), 2)
}

func TestTopic_SubscribeDuringPublishIsNotVisibleToThatPublish(t *testing.T) {
	top := NewTopic("A")
	first := newRecordingAgent("first")
	second := newRecordingAgent("second")

	top.Subscribe(first)

	snapshot := top.Subscribers()
	top.Subscribe(second)

	for _, sub := range snapshot {
		sub.OnMessage(top.Name(), message.NewFromText("1"))
	}

	assert.Equal(t, []string{"1"}, first.texts())
	assert.Empty(t, second.texts())

	top.Publish(message.NewFromText("2"))
	assert.Equal(t, []string{"2"}, second.texts())
}

func TestTopic_ClearAll(t *testing.T) {
	top := NewTopic("A")
	agent := newRecordingAgent("inc")
	top.Subscribe(agent)
	top.AddPublisher(agent)
	top.Publish(message.NewFromText("1"))

	top.ClearAll()

	assert.Empty(t, top.Subscribers())
	assert.Empty(t, top.Publishers())
	assert.Nil(t, top.LastMessage())
}

func TestRegistry_GetIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	a := reg.Get("A")
	b := reg.Get("A")
	assert.Same(t, a, b)
}

func TestRegistry_GetConcurrent_SameInstance(t *testing.T) {
	reg := NewRegistry()
	const n = 50
	results := make([]*Topic, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			results[i] = reg.Get("shared")
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestRegistry_Topics_Enumeration(t *testing.T) {
	reg := NewRegistry()
	reg.Get("A")
	reg.Get("B")
	names := make([]string, 0)
	for _, t := range reg.Topics() {
		names = append(names, t.Name())
	}
	assert.ElementsMatch(t, []string{"A", "B"}, names)
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry()
	top := reg.Get("A")
	agent := newRecordingAgent("inc")
	top.Subscribe(agent)

	require.Empty(t, reg.LastClearTime())
	reg.Clear()

	assert.Empty(t, reg.Topics())
	assert.False(t, reg.Has("A"))
	assert.False(t, reg.LastClearTime().IsZero())
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}
