// Package dial converts raw pointer samples into discrete combination-lock
// values.
//
// The dial face carries 99 equally spaced markers per revolution. A Decoder
// accumulates unbounded signed rotation from pointer drags (multiple full
// turns are meaningful), derives the current value from that rotation, and
// snaps onto the nearest marker when the drag ends. A Stillness detector
// watches the resulting value stream and declares a commit once the value has
// been quiet for a full window.
//
// Everything here is pure synchronous computation. Timing decisions are
// modelled as explicit deadlines that the caller polls against its own clock,
// so the package never owns a timer and tests never sleep.
package dial
