package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SANNNNN-123/threeDials/internal/store"
)

func newLeaderboard(t *testing.T) (*Leaderboard, *Games, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(store.SessionTTL)
	games := NewGames(mem, WithNow(fixedNow))
	lb := NewLeaderboard(mem, games, WithLeaderboardNow(fixedNow))
	return lb, games, mem
}

// putCompleted stores a session whose attempt log ends on its targets.
func putCompleted(t *testing.T, mem *store.Memory, id string) {
	t.Helper()
	g := store.Game{
		SessionID: id,
		Targets:   [3]int{12, 47, 83},
		Attempts:  []int{12, 47, 83},
	}
	require.NoError(t, mem.Put(context.Background(), g))
}

func TestLeaderboard_SubmitValidatesBeforeStore(t *testing.T) {
	lb, _, mem := newLeaderboard(t)
	ctx := context.Background()
	putCompleted(t, mem, "s1")

	cases := []struct {
		label   string
		name    string
		seconds int
	}{
		{"empty name", "", 30},
		{"whitespace name", "   ", 30},
		{"name too long", strings.Repeat("x", MaxNameLen+1), 30},
		{"zero time", "alice", 0},
		{"negative time", "alice", -5},
	}
	for _, tc := range cases {
		err := lb.Submit(ctx, "s1", tc.name, tc.seconds, "")
		assert.ErrorIs(t, err, store.ErrInvalidInput, tc.label)
	}

	top, err := lb.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top, "rejected submissions must not reach the store")
}

func TestLeaderboard_SubmitRequiresCompletedSession(t *testing.T) {
	lb, _, mem := newLeaderboard(t)
	ctx := context.Background()

	err := lb.Submit(ctx, "missing", "alice", 30, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	g := store.Game{SessionID: "s2", Targets: [3]int{1, 2, 3}, Attempts: []int{1, 2}}
	require.NoError(t, mem.Put(ctx, g))
	err = lb.Submit(ctx, "s2", "alice", 30, "")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestLeaderboard_SubmitAfterFailedAttemptAndReroll(t *testing.T) {
	lb, games, mem := newLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, store.Game{SessionID: "s1", Targets: [3]int{12, 47, 83}}))

	// A failed attempt, then the reset replaces the combination on record.
	for _, v := range []int{12, 47, 5} {
		_, err := games.RecordAttempt(ctx, "s1", v)
		require.NoError(t, err)
	}
	_, err := mem.SetTargets(ctx, "s1", [3]int{7, 8, 9})
	require.NoError(t, err)

	// Winning against the new combination must verify and submit cleanly.
	for _, v := range []int{7, 8, 9} {
		_, err := games.RecordAttempt(ctx, "s1", v)
		require.NoError(t, err)
	}
	require.NoError(t, lb.Submit(ctx, "s1", "alice", 42, ""))

	top, err := lb.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "alice", top[0].Name)
}

func TestLeaderboard_SubmitTrimsAndDefaults(t *testing.T) {
	lb, _, mem := newLeaderboard(t)
	ctx := context.Background()
	putCompleted(t, mem, "s1")

	require.NoError(t, lb.Submit(ctx, "s1", "  alice  ", 30, ""))

	top, err := lb.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "alice", top[0].Name)
	assert.Equal(t, 30, top[0].Time)
	assert.Equal(t, "Unknown", top[0].Country)
	assert.Equal(t, fixedNow().UnixMilli(), top[0].CompletedAt)
}

func TestLeaderboard_TopRanksBestFirst(t *testing.T) {
	lb, _, mem := newLeaderboard(t)
	ctx := context.Background()

	for i, sub := range []struct {
		id      string
		name    string
		seconds int
	}{
		{"a", "alice", 45},
		{"b", "bob", 12},
		{"c", "carol", 30},
	} {
		putCompleted(t, mem, sub.id)
		require.NoError(t, lb.Submit(ctx, sub.id, sub.name, sub.seconds, "NZ"), "submission %d", i)
	}

	top, err := lb.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob", top[0].Name)
	assert.Equal(t, "carol", top[1].Name)

	// n <= 0 falls back to the default page size.
	all, err := lb.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
