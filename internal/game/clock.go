package game

import "time"

// Clock abstracts wall-time reads so tests can drive elapsed time
// deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real-time clock used outside of tests.
func SystemClock() Clock { return systemClock{} }
