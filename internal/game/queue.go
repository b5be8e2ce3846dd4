package game

import "sync"

// eventQueue is a thread-safe FIFO feeding the engine's run loop.
//
// Producers (HTTP handlers, input adapters, the engine's own timer) enqueue
// from any goroutine; only the run loop dequeues. A buffered signal channel
// of size 1 coalesces wakeups so the loop can select on it alongside its
// context and timer.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 32),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends an event. Returns false once the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front event without blocking.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	// Zero the slot so the backing array doesn't pin the event's pointers.
	q.events[0] = Event{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Wait returns the wakeup channel for use in a select. It closes when the
// queue closes.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending events.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close stops accepting events and wakes all waiters.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
