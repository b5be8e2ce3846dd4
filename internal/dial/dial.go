package dial

import (
	"math"
	"time"
)

const (
	// Markers is the number of discrete positions per full revolution.
	Markers = 99

	// MarkerAngle is the angular width of one marker step in degrees.
	MarkerAngle = 360.0 / Markers

	// SettleQuiet is how long a drag must sit motionless before the dial is
	// snapped onto a marker without an explicit pointer release. Covers the
	// slow-stop case where the player holds the dial still mid-drag.
	SettleQuiet = 100 * time.Millisecond
)

// Point is a pointer sample in the same coordinate space as the dial face.
type Point struct {
	X float64
	Y float64
}

// Geometry describes the dial face that pointer coordinates are relative to.
type Geometry struct {
	Center Point
	Radius float64
}

// State holds the dial position. Value is always derived from Rotation;
// nothing may set it directly.
type State struct {
	// Rotation is the accumulated rotation in degrees. Unbounded and signed:
	// three clockwise turns from zero is 1080, not 0.
	Rotation float64

	// Value is the discrete reading in [0,99), recomputed on every rotation
	// change via valueFor.
	Value int

	Dragging         bool
	LastPointerAngle float64
	LastMoveAt       time.Time
}

// Decoder turns a stream of pointer events into dial State.
//
// Not safe for concurrent use; the engine drives it from a single goroutine.
type Decoder struct {
	geo   Geometry
	state State
}

// NewDecoder creates a decoder for a dial with the given geometry.
func NewDecoder(geo Geometry) *Decoder {
	return &Decoder{geo: geo}
}

// State returns a copy of the current dial state.
func (d *Decoder) State() State { return d.state }

// Value returns the current discrete reading in [0,99).
func (d *Decoder) Value() int { return d.state.Value }

// Dragging reports whether a drag is in progress.
func (d *Decoder) Dragging() bool { return d.state.Dragging }

// LastMoveAt returns the timestamp of the last pointer movement.
func (d *Decoder) LastMoveAt() time.Time { return d.state.LastMoveAt }

// PointerDown starts a drag at the given point.
// Degenerate geometry (zero radius, pointer at the exact center) is a no-op
// rather than a crash; the input loop must survive bad events.
func (d *Decoder) PointerDown(p Point, at time.Time) {
	angle, ok := d.pointerAngle(p)
	if !ok {
		return
	}
	d.state.Dragging = true
	d.state.LastPointerAngle = angle
	d.state.LastMoveAt = at
}

// PointerMove advances the drag to a new pointer position and reports whether
// the discrete value changed. Ignored when no drag is in progress.
func (d *Decoder) PointerMove(p Point, at time.Time) (changed bool) {
	if !d.state.Dragging {
		return false
	}
	angle, ok := d.pointerAngle(p)
	if !ok {
		return false
	}

	// Wrap the raw delta into [-180,180] so crossing the atan2 seam at ±180°
	// reads as a small movement, not a near-full turn the other way.
	delta := wrapDelta(angle - d.state.LastPointerAngle)

	before := d.state.Value
	d.state.Rotation += delta
	d.state.Value = valueFor(d.state.Rotation)
	d.state.LastPointerAngle = angle
	d.state.LastMoveAt = at
	return d.state.Value != before
}

// PointerUp ends the drag and settles the dial onto the nearest marker.
func (d *Decoder) PointerUp() {
	if !d.state.Dragging {
		return
	}
	d.state.Dragging = false
	d.Settle()
}

// pointerAngle computes the pointer's angle around the dial center in
// degrees. Returns ok=false for degenerate geometry.
func (d *Decoder) pointerAngle(p Point) (float64, bool) {
	if d.geo.Radius <= 0 {
		return 0, false
	}
	dx := p.X - d.geo.Center.X
	dy := p.Y - d.geo.Center.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}
	return math.Atan2(dy, dx) * (180 / math.Pi), true
}

// valueFor derives the discrete reading from an accumulated rotation.
// The dial numbers run counter-clockwise, hence the 99-n flip.
func valueFor(rotation float64) int {
	n := int(math.Round(normalize(rotation) / 360 * Markers))
	return ((Markers - n) % Markers)
}

// normalize maps an unbounded rotation into [0,360).
func normalize(x float64) float64 {
	return math.Mod(math.Mod(x, 360)+360, 360)
}

// wrapDelta maps an angular difference into [-180,180].
func wrapDelta(d float64) float64 {
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}
