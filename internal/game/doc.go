// Package game contains the combination-lock state machine and the
// single-writer engine that drives it.
//
// The engine consumes explicit events (pointer samples, timer ticks, new-game
// requests) from a FIFO queue in one goroutine. All mutation of dial and
// combo state happens in that goroutine; there is nothing to lock. Timer
// behavior (the stillness quiet window, the mid-drag settle threshold, the
// post-failure reset delay) is modelled as deadlines the loop arms a single
// timer against, so a value change cancels a pending commit simply by moving
// its deadline.
//
// Persistence is fire-and-forget: committed attempts are handed to a
// per-session Writer that serializes store calls so they land in commit order
// without ever blocking input.
package game
