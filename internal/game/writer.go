package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SANNNNN-123/threeDials/internal/store"
)

// writeTimeout bounds a single store call so a dead backend cannot pin a
// session's writer goroutine forever.
const writeTimeout = 5 * time.Second

// Writer persists committed attempts without blocking the engine.
//
// Appends for one session are drained by one goroutine in FIFO order, so
// attempts reach the store in commit order even when individual writes are
// slow. Failures are logged and surfaced nowhere else: the engine reports on
// persistence, it never retries inline and never enters an error state.
// Abandoning a session does not cancel in-flight writes; it only stops
// producing new ones.
type Writer struct {
	sessions store.Sessions

	mu       sync.Mutex
	byID     map[string]*sessionWriter
	closed   bool
	drainers sync.WaitGroup
}

// writeOp is one queued store mutation: an attempt append, or a combination
// replacement after a reset re-roll.
type writeOp struct {
	setTargets bool
	value      int
	targets    [3]int
}

type sessionWriter struct {
	mu      sync.Mutex
	pending []writeOp
	closed  bool
	signal  chan struct{}
}

// NewWriter creates a writer backed by the given session store.
func NewWriter(sessions store.Sessions) *Writer {
	return &Writer{
		sessions: sessions,
		byID:     make(map[string]*sessionWriter),
	}
}

// Append queues one attempt value for the session. Never blocks on I/O.
// Dropped silently after Close.
func (w *Writer) Append(sessionID string, value int) {
	w.enqueue(sessionID, writeOp{value: value})
}

// SetTargets queues a combination replacement, ordered with the appends
// around it so the store never shows new targets before the failed attempt
// that caused them.
func (w *Writer) SetTargets(sessionID string, targets [3]int) {
	w.enqueue(sessionID, writeOp{setTargets: true, targets: targets})
}

func (w *Writer) enqueue(sessionID string, op writeOp) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	sw, ok := w.byID[sessionID]
	if !ok {
		sw = &sessionWriter{signal: make(chan struct{}, 1)}
		w.byID[sessionID] = sw
		w.drainers.Add(1)
		go w.drain(sessionID, sw)
	}
	w.mu.Unlock()

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.closed {
		return
	}
	sw.pending = append(sw.pending, op)
	// Signal under the lock; Close also closes the channel under it, so a
	// send on a closed channel cannot happen.
	select {
	case sw.signal <- struct{}{}:
	default:
	}
}

// drain is the single consumer for one session's queue.
func (w *Writer) drain(sessionID string, sw *sessionWriter) {
	defer w.drainers.Done()
	for {
		sw.mu.Lock()
		if len(sw.pending) == 0 {
			if sw.closed {
				sw.mu.Unlock()
				return
			}
			sw.mu.Unlock()
			<-sw.signal
			continue
		}
		op := sw.pending[0]
		sw.pending = sw.pending[1:]
		sw.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		var err error
		if op.setTargets {
			_, err = w.sessions.SetTargets(ctx, sessionID, op.targets)
		} else {
			_, err = w.sessions.AddAttempt(ctx, sessionID, op.value)
		}
		cancel()
		if err != nil {
			slog.Error("session write failed",
				"session_id", sessionID,
				"error", err,
			)
		}
	}
}

// Close stops accepting appends and waits for every pending write to finish.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	writers := make([]*sessionWriter, 0, len(w.byID))
	for _, sw := range w.byID {
		writers = append(writers, sw)
	}
	w.mu.Unlock()

	for _, sw := range writers {
		sw.mu.Lock()
		sw.closed = true
		close(sw.signal)
		sw.mu.Unlock()
	}
	w.drainers.Wait()
}
