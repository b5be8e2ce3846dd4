package game

import "github.com/SANNNNN-123/threeDials/internal/dial"

// EventType distinguishes the event kinds the engine consumes.
type EventType int

const (
	// EventPointerDown starts a drag at Point.
	EventPointerDown EventType = iota + 1
	// EventPointerMove advances a drag to Point.
	EventPointerMove
	// EventPointerUp ends the drag and settles the dial.
	EventPointerUp
	// EventTick asks the engine to check its pending deadlines. The run loop
	// arms these itself; tests enqueue them after advancing a manual clock.
	EventTick
	// EventNewGame abandons the current session and starts the given one.
	EventNewGame
)

// Event is one unit of work for the engine's run loop.
type Event struct {
	Type  EventType
	Point dial.Point

	// Session carries the new session for EventNewGame.
	Session *Session
}
