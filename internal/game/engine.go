package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/SANNNNN-123/threeDials/internal/dial"
)

// Timing defaults. The quiet window is how long the dial value must hold
// still before it commits; the reset delay keeps a failed attempt on display
// before targets re-roll.
const (
	DefaultQuietWindow = time.Second
	DefaultResetDelay  = 2 * time.Second
)

// Engine is the single-writer game loop.
//
// External producers submit events with Enqueue; Run consumes them in one
// goroutine, which is the only place dial and combo state mutate. The engine
// never blocks on persistence: committed values go to the Writer and the loop
// moves on.
type Engine struct {
	queue  *eventQueue
	clock  Clock
	writer *Writer

	quiet      time.Duration
	resetDelay time.Duration
	intn       func(n int) int

	dec   *dial.Decoder
	still *dial.Stillness
	combo *Combo

	// settledAt records the last mid-drag settle so a motionless drag is
	// snapped once, not on every tick.
	settledAt time.Time

	onValue  func(value int)
	onCommit func(Outcome)
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects a time source. Tests pass a manual clock.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithQuietWindow overrides the stillness window.
func WithQuietWindow(d time.Duration) Option { return func(e *Engine) { e.quiet = d } }

// WithResetDelay overrides the post-failure reset delay.
func WithResetDelay(d time.Duration) Option { return func(e *Engine) { e.resetDelay = d } }

// WithIntN injects the random source for target re-rolls.
func WithIntN(intn func(n int) int) Option { return func(e *Engine) { e.intn = intn } }

// WithOnValue subscribes to discrete value changes (the rendering feed).
func WithOnValue(fn func(value int)) Option { return func(e *Engine) { e.onValue = fn } }

// WithOnCommit subscribes to commit outcomes (slot updates, completion,
// failure).
func WithOnCommit(fn func(Outcome)) Option { return func(e *Engine) { e.onCommit = fn } }

// New creates an engine for a dial with the given geometry. The writer
// receives committed attempts; the caller keeps ownership and closes it after
// Run returns.
func New(geo dial.Geometry, writer *Writer, opts ...Option) *Engine {
	e := &Engine{
		queue:      newEventQueue(),
		clock:      SystemClock(),
		writer:     writer,
		quiet:      DefaultQuietWindow,
		resetDelay: DefaultResetDelay,
		intn:       rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dec = dial.NewDecoder(geo)
	e.still = dial.NewStillness(e.quiet)
	e.combo = NewCombo(e.resetDelay, e.intn)
	return e
}

// Enqueue submits an event for processing. Safe from any goroutine.
// Returns false once the engine has stopped.
func (e *Engine) Enqueue(ev Event) bool {
	return e.queue.Enqueue(ev)
}

// StartSession enqueues a session switch.
func (e *Engine) StartSession(s Session) bool {
	return e.Enqueue(Event{Type: EventNewGame, Session: &s})
}

// Stop closes the queue; Run drains what is left and returns.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Run is the single-writer event loop. Must be called from exactly one
// goroutine; blocks until the context is cancelled or Stop is called.
//
// Between events the loop arms one timer for the earliest pending deadline
// (mid-drag settle, stillness commit, combo reset). Any new event re-derives
// the deadline, which is how a value change cancels a pending commit.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine starting")

	for {
		if ev, ok := e.queue.TryDequeue(); ok {
			e.handle(ev)
			continue
		}

		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		if dl, ok := e.nextDeadline(); ok {
			d := dl.Sub(e.clock.Now())
			if d < 0 {
				d = 0
			}
			timer = time.NewTimer(d)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			e.queue.Close()
			slog.Info("engine stopping", "reason", "context cancelled")
			return ctx.Err()

		case <-e.queue.Wait():
			if timer != nil {
				timer.Stop()
			}
			// The signal channel closes when the queue closes; an empty
			// closed queue means a graceful stop.
			if e.queue.Len() == 0 {
				slog.Info("engine stopping", "reason", "queue closed")
				return nil
			}

		case <-timerC:
			e.handle(Event{Type: EventTick})
		}
	}
}

// handle processes one event. Run-loop goroutine only.
func (e *Engine) handle(ev Event) {
	now := e.clock.Now()

	switch ev.Type {
	case EventPointerDown:
		e.dec.PointerDown(ev.Point, now)

	case EventPointerMove:
		if e.dec.PointerMove(ev.Point, now) {
			v := e.dec.Value()
			e.still.Observe(v, now)
			if e.onValue != nil {
				e.onValue(v)
			}
		}

	case EventPointerUp:
		e.dec.PointerUp()

	case EventTick:
		e.tick(now)

	case EventNewGame:
		if ev.Session == nil {
			return
		}
		e.combo.Start(*ev.Session)
		// A commit pending from the previous session must not leak into the
		// new one.
		e.still = dial.NewStillness(e.quiet)
		slog.Info("session started", "session_id", ev.Session.ID)

	default:
		slog.Warn("unknown event type", "type", int(ev.Type))
	}
}

// tick checks every pending deadline against now.
func (e *Engine) tick(now time.Time) {
	// Slow stop: the player is still holding the dial but it has not moved
	// for the settle threshold.
	if e.settlePending() && now.Sub(e.dec.LastMoveAt()) >= dial.SettleQuiet {
		e.dec.Settle()
		e.settledAt = now
	}

	if v, ok := e.still.Expire(now); ok {
		e.commit(v, now)
	}

	if e.combo.Expire(now) {
		// The re-roll must reach the store, or win verification would still
		// judge against the combination that already failed.
		s := e.combo.Session()
		e.writer.SetTargets(s.ID, s.Targets)
		slog.Info("combination reset", "session_id", s.ID)
	}
}

// commit feeds a settled value into the combo machine and dispatches the
// attempt write.
func (e *Engine) commit(value int, now time.Time) {
	out, ok := e.combo.Commit(value, now)
	if !ok {
		return
	}

	id := e.combo.Session().ID
	e.writer.Append(id, value)
	slog.Info("value committed",
		"session_id", id,
		"slot", out.Slot,
		"value", value,
	)

	switch {
	case out.Completed:
		slog.Info("combination completed",
			"session_id", id,
			"elapsed", out.Elapsed,
		)
	case out.Failed:
		slog.Info("combination failed",
			"session_id", id,
		)
	}

	if e.onCommit != nil {
		e.onCommit(out)
	}
}

// settlePending reports whether a mid-drag settle is still owed for the
// current motionless stretch.
func (e *Engine) settlePending() bool {
	return e.dec.Dragging() && e.settledAt.Before(e.dec.LastMoveAt())
}

// nextDeadline returns the earliest pending timer deadline.
func (e *Engine) nextDeadline() (time.Time, bool) {
	var (
		dl   time.Time
		have bool
	)
	consider := func(t time.Time) {
		if !have || t.Before(dl) {
			dl, have = t, true
		}
	}

	if e.settlePending() {
		consider(e.dec.LastMoveAt().Add(dial.SettleQuiet))
	}
	if t, ok := e.still.Deadline(); ok {
		consider(t)
	}
	if t, ok := e.combo.ResetDeadline(); ok {
		consider(t)
	}
	return dl, have
}
