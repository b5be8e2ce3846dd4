package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCombo(targets [3]int, startedAt time.Time) *Combo {
	// Re-rolls draw 1, 2, 3 deterministically.
	i := 0
	c := NewCombo(DefaultResetDelay, func(int) int { i++; return i })
	c.Start(Session{ID: "s1", Targets: targets, StartedAt: startedAt})
	return c
}

func TestCombo_WinningSequenceCompletes(t *testing.T) {
	t0 := time.Unix(1000, 0)
	c := newTestCombo([3]int{12, 47, 83}, t0)

	for i, v := range []int{12, 47} {
		out, ok := c.Commit(v, t0.Add(time.Duration(i+1)*time.Second))
		require.True(t, ok)
		assert.Equal(t, i, out.Slot)
		assert.False(t, out.Completed)
		assert.False(t, out.Failed)
		assert.Equal(t, PhasePlaying, c.Phase())
	}

	out, ok := c.Commit(83, t0.Add(35*time.Second))
	require.True(t, ok)
	assert.True(t, out.Completed)
	assert.Equal(t, 35*time.Second, out.Elapsed)
	assert.Equal(t, PhaseCompleted, c.Phase())
}

func TestCombo_WrongLastDigitFails(t *testing.T) {
	t0 := time.Unix(1000, 0)
	c := newTestCombo([3]int{12, 47, 83}, t0)

	c.Commit(12, t0)
	c.Commit(47, t0)
	out, ok := c.Commit(5, t0.Add(10*time.Second))
	require.True(t, ok)
	assert.True(t, out.Failed)
	assert.False(t, out.Completed)
	assert.Equal(t, PhaseResetting, c.Phase())

	dl, armed := c.ResetDeadline()
	require.True(t, armed)
	assert.Equal(t, t0.Add(10*time.Second).Add(DefaultResetDelay), dl)
}

func TestCombo_WrongEarlyDigitDoesNotResetEarly(t *testing.T) {
	t0 := time.Unix(1000, 0)
	c := newTestCombo([3]int{12, 47, 83}, t0)

	// Wrong digit in slot 0: play continues, all three slots fill before
	// anything is judged.
	out, ok := c.Commit(99 - 1, t0)
	require.True(t, ok)
	assert.False(t, out.Failed)
	assert.Equal(t, PhasePlaying, c.Phase())

	c.Commit(47, t0)
	out, _ = c.Commit(83, t0)
	assert.True(t, out.Failed, "judged only after the third slot")
}

func TestCombo_PositionSensitiveEquality(t *testing.T) {
	t0 := time.Unix(1000, 0)
	c := newTestCombo([3]int{12, 47, 83}, t0)

	// Right values, wrong order: not a win.
	c.Commit(47, t0)
	c.Commit(12, t0)
	out, _ := c.Commit(83, t0)
	assert.True(t, out.Failed)
}

func TestCombo_ResetRerollsTargetsAndClearsSlots(t *testing.T) {
	t0 := time.Unix(1000, 0)
	c := newTestCombo([3]int{12, 47, 83}, t0)

	c.Commit(1, t0)
	c.Commit(2, t0)
	c.Commit(3, t0)
	require.Equal(t, PhaseResetting, c.Phase())

	// Commits during the display delay are swallowed.
	_, ok := c.Commit(50, t0.Add(time.Second))
	assert.False(t, ok)

	assert.False(t, c.Expire(t0.Add(DefaultResetDelay-time.Millisecond)))
	require.True(t, c.Expire(t0.Add(DefaultResetDelay)))

	assert.Equal(t, PhasePlaying, c.Phase())
	_, filled := c.Slots()
	assert.Zero(t, filled)
	assert.Equal(t, [3]int{1, 2, 3}, c.Session().Targets, "re-rolled from the stub source")
}

func TestCombo_NoCommitsAfterCompletion(t *testing.T) {
	t0 := time.Unix(1000, 0)
	c := newTestCombo([3]int{12, 47, 83}, t0)

	c.Commit(12, t0)
	c.Commit(47, t0)
	c.Commit(83, t0)
	require.Equal(t, PhaseCompleted, c.Phase())

	_, ok := c.Commit(1, t0)
	assert.False(t, ok)
}

func TestCombo_NoSessionNoCommits(t *testing.T) {
	c := NewCombo(DefaultResetDelay, func(int) int { return 0 })
	_, ok := c.Commit(12, time.Unix(1000, 0))
	assert.False(t, ok)
}

func TestCombo_StartClearsResetState(t *testing.T) {
	t0 := time.Unix(1000, 0)
	c := newTestCombo([3]int{12, 47, 83}, t0)

	c.Commit(1, t0)
	c.Commit(2, t0)
	c.Commit(3, t0)
	require.Equal(t, PhaseResetting, c.Phase())

	c.Start(Session{ID: "s2", Targets: [3]int{4, 5, 6}, StartedAt: t0})
	assert.Equal(t, PhasePlaying, c.Phase())
	_, armed := c.ResetDeadline()
	assert.False(t, armed)
}
