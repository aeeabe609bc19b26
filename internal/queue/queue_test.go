package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

func TestFIFOOrdering(t *testing.T) {
	q := New()

	texts := []string{"a", "b", "c", "d"}
	for _, s := range texts {
		q.Push(Event{Text: s})
	}

	for _, want := range texts {
		assert.Equal(t, want, q.Pop().Text)
	}
	assert.True(t, q.Empty())
}

func TestPushNeverBlocksAcrossProducers(t *testing.T) {
	q := New()

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Event{})
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("producers blocked on push")
	}

	for i := 0; i < producers*perProducer; i++ {
		q.Pop()
	}
	assert.True(t, q.Empty())
}

func TestPopBlocksUntilPush(t *testing.T) {
	q := New()

	got := make(chan Event, 1)
	go func() {
		got <- q.Pop()
	}()

	select {
	case <-got:
		t.Fatal("pop returned on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	ans := "deferred"
	q.Push(Event{Reply: &reply.Reply{Answer: &ans}})

	select {
	case ev := <-got:
		require.NotNil(t, ev.Reply)
		assert.Equal(t, "deferred", *ev.Reply.Answer)
	case <-time.After(2 * time.Second):
		t.Fatal("pop never woke up")
	}
}

func TestEventShapesAreDistinguishable(t *testing.T) {
	q := New()

	q.Push(Event{})
	q.Push(Event{Reply: &reply.Reply{Stop: true}})
	q.Push(Event{Text: "typed question"})

	wake := q.Pop()
	assert.Nil(t, wake.Reply)
	assert.Empty(t, wake.Text)

	planned := q.Pop()
	require.NotNil(t, planned.Reply)
	assert.True(t, planned.Reply.Stop)

	typed := q.Pop()
	assert.Equal(t, "typed question", typed.Text)
}
