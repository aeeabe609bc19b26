package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

type sink struct {
	mu    sync.Mutex
	fired []reply.Reply
}

func (s *sink) onFire(r reply.Reply) {
	s.mu.Lock()
	s.fired = append(s.fired, r)
	s.mu.Unlock()
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fired)
}

func TestAddEventFiresAfterDelay(t *testing.T) {
	s := New()
	defer s.Stop()

	var got sink
	s.OnFire(got.onFire)

	ans := "ALARM"
	s.AddEvent(20*time.Millisecond, reply.Reply{Answer: &ans})

	assert.Zero(t, got.count(), "must not fire before the delay")

	require.Eventually(t, func() bool {
		return got.count() == 1
	}, 2*time.Second, 5*time.Millisecond)

	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Equal(t, "ALARM", *got.fired[0].Answer)
}

func TestZeroDelayFiresImmediately(t *testing.T) {
	s := New()
	defer s.Stop()

	var got sink
	s.OnFire(got.onFire)

	s.AddEvent(0, reply.Reply{})

	require.Eventually(t, func() bool {
		return got.count() == 1
	}, time.Second, time.Millisecond)
}

func TestStopCancelsPending(t *testing.T) {
	s := New()

	var got sink
	s.OnFire(got.onFire)

	s.AddEvent(30*time.Millisecond, reply.Reply{})
	s.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, got.count())
}

func TestAddEventAfterStopIsNoop(t *testing.T) {
	s := New()
	s.Stop()

	var got sink
	s.OnFire(got.onFire)
	s.AddEvent(0, reply.Reply{})

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, got.count())
}
