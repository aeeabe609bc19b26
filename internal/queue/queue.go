package queue

import (
	"sync"

	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

// Event is what trigger sources put on the queue. A zero Event is a
// bare wake notification; a non-nil Reply is a pre-built payload from
// the scheduler that skips capture and goes straight to dispatch; a
// non-empty Text is an injected question that skips capture but still
// asks the dialogue service.
type Event struct {
	Reply *reply.Reply
	Text  string
}

// Queue is an unbounded multi-producer / single-consumer FIFO. Push
// never blocks or fails; Pop blocks the single consumer until an event
// arrives. FIFO across all producers is the only ordering guarantee.
type Queue struct {
	mu     sync.Mutex
	nonEmp *sync.Cond
	events []Event
}

func New() *Queue {
	q := &Queue{}
	q.nonEmp = sync.NewCond(&q.mu)
	return q
}

func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
	q.nonEmp.Signal()
}

// Pop blocks until at least one event is queued, then removes and
// returns the oldest one. Only the control loop may call it.
func (q *Queue) Pop() Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.events) == 0 {
		q.nonEmp.Wait()
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev
}

func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) == 0
}
