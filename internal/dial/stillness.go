package dial

import "time"

// Stillness watches the stream of discrete dial values and declares a commit
// once the value has been quiet for a full window.
//
// The detector holds an explicit deadline instead of owning a timer: the
// engine asks for Deadline, sleeps until it, then calls Expire. A value change
// before the deadline simply moves it, which is how a resumed drag cancels a
// pending commit. At most one commit fires per stillness episode; the detector
// disarms itself until the next value change.
type Stillness struct {
	quiet      time.Duration
	lastValue  int
	lastChange time.Time
	armed      bool
}

// NewStillness creates a detector with the given quiet window.
func NewStillness(quiet time.Duration) *Stillness {
	return &Stillness{quiet: quiet}
}

// Observe records a value change, arming (or re-arming) the quiet window.
func (s *Stillness) Observe(value int, at time.Time) {
	s.lastValue = value
	s.lastChange = at
	s.armed = true
}

// Deadline returns the instant the current quiet window elapses.
// ok is false when no commit is pending.
func (s *Stillness) Deadline() (time.Time, bool) {
	if !s.armed {
		return time.Time{}, false
	}
	return s.lastChange.Add(s.quiet), true
}

// Expire fires the pending commit if the quiet window has elapsed by now.
// Returns the settled value and ok=true at most once per episode.
func (s *Stillness) Expire(now time.Time) (value int, ok bool) {
	if !s.armed || now.Before(s.lastChange.Add(s.quiet)) {
		return 0, false
	}
	s.armed = false
	return s.lastValue, true
}
