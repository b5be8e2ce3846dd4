// Package store provides durable storage for game sessions and the ranked
// leaderboard.
//
// Two concerns, two very different consistency stories:
//
//   - Sessions are JSON blobs with a per-key TTL. AddAttempt and SetTargets
//     are read-modify-writes with no compare-and-swap, which is acceptable
//     only because a session is driven by exactly one input stream. If
//     sessions are ever shared between writers this becomes a real race.
//   - The leaderboard is a ranked set keyed by completion time (ascending =
//     better). Inserts are single atomic adds; no read-modify-write exists on
//     this path.
//
// Three backends implement the same interfaces: Redis (the production
// deployment), SQLite (single node), and an in-memory store for tests and
// local runs.
package store
