package game

import "time"

// Phase is the combo state machine's coarse state. While Playing, the active
// slot index tracks which of the three slots the next commit fills.
type Phase int

const (
	// PhasePlaying accepts commits into the active slot.
	PhasePlaying Phase = iota
	// PhaseCompleted is terminal: all three slots matched their targets.
	PhaseCompleted
	// PhaseResetting holds the failed slots on display until the reset
	// deadline, then re-rolls targets and returns to PhasePlaying.
	PhaseResetting
)

// Session identifies the active play-through.
type Session struct {
	ID        string
	Targets   [3]int
	StartedAt time.Time
}

// Outcome describes what a commit did.
type Outcome struct {
	// Slot is the index the value was written into.
	Slot  int
	Value int
	// Completed is set when the third commit matched all targets in order.
	Completed bool
	// Failed is set when the third commit finished a non-matching attempt.
	Failed bool
	// Elapsed is the completion time, valid only when Completed.
	Elapsed time.Duration
}

// Combo places committed dial values into ordered slots and decides wins.
//
// Slots fill strictly left to right. A wrong digit in slot 0 or 1 does not
// reset anything: the player fills all three before the attempt is judged.
// Per-slot coloring (correct / present-elsewhere / absent) is a rendering
// concern and never feeds back into this machine.
type Combo struct {
	phase         Phase
	session       Session
	slots         [3]int
	filled        int
	resetDelay    time.Duration
	resetDeadline time.Time
	intn          func(n int) int
}

// NewCombo creates a state machine with the given post-failure reset delay.
// intn seeds target re-rolls; see NewTargets.
func NewCombo(resetDelay time.Duration, intn func(n int) int) *Combo {
	return &Combo{resetDelay: resetDelay, intn: intn}
}

// Start abandons any current state and begins the given session at slot 0.
func (c *Combo) Start(s Session) {
	c.phase = PhasePlaying
	c.session = s
	c.slots = [3]int{}
	c.filled = 0
	c.resetDeadline = time.Time{}
}

// Session returns the active session.
func (c *Combo) Session() Session { return c.session }

// Phase returns the current phase.
func (c *Combo) Phase() Phase { return c.phase }

// Slots returns the slot values and how many leading slots are filled.
func (c *Combo) Slots() (values [3]int, filled int) {
	return c.slots, c.filled
}

// Commit writes a settled dial value into the active slot. ok is false when
// the machine is not accepting commits (completed, mid-reset, or no session).
func (c *Combo) Commit(value int, now time.Time) (Outcome, bool) {
	if c.phase != PhasePlaying || c.session.ID == "" || c.filled >= len(c.slots) {
		return Outcome{}, false
	}

	out := Outcome{Slot: c.filled, Value: value}
	c.slots[c.filled] = value
	c.filled++

	if c.filled < len(c.slots) {
		return out, true
	}

	// Third slot just filled: judge the attempt with position-sensitive
	// equality. Set membership is not enough.
	if c.slots == c.session.Targets {
		c.phase = PhaseCompleted
		out.Completed = true
		out.Elapsed = now.Sub(c.session.StartedAt)
		return out, true
	}

	c.phase = PhaseResetting
	c.resetDeadline = now.Add(c.resetDelay)
	out.Failed = true
	return out, true
}

// ResetDeadline returns when the post-failure display delay elapses.
// ok is false unless the machine is resetting.
func (c *Combo) ResetDeadline() (time.Time, bool) {
	if c.phase != PhaseResetting {
		return time.Time{}, false
	}
	return c.resetDeadline, true
}

// Expire performs the pending reset once its deadline has passed: new
// targets, cleared slots, back to slot 0. The new targets may coincide with
// the old ones; distinctness is the only guarantee. Reports whether a reset
// happened.
func (c *Combo) Expire(now time.Time) bool {
	if c.phase != PhaseResetting || now.Before(c.resetDeadline) {
		return false
	}
	c.session.Targets = NewTargets(c.intn)
	c.slots = [3]int{}
	c.filled = 0
	c.phase = PhasePlaying
	c.resetDeadline = time.Time{}
	return true
}
