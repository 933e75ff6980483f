package event

import (
	"sync"

	"github.com/gammazero/deque"
)

// Outbox queues the events users must see: announcements, end notices
// and violations. Push never blocks and never drops, so it is safe to
// call under a channel lock. Events come out in push order.
type Outbox struct {
	mu     sync.Mutex
	queue  deque.Deque[Event]
	notify chan struct{}
}

func NewOutbox() *Outbox {
	return &Outbox{notify: make(chan struct{}, 1)}
}

func (o *Outbox) Push(evt Event) {
	o.mu.Lock()
	o.queue.PushBack(evt)
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
		// a wake up is already pending
	}
}

// Ready receives a value whenever events were pushed since the last
// wake up. The consumer is expected to Pop until empty.
func (o *Outbox) Ready() <-chan struct{} {
	return o.notify
}

func (o *Outbox) Pop() (Event, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.queue.Len() == 0 {
		return Event{}, false
	}
	return o.queue.PopFront(), true
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queue.Len()
}
