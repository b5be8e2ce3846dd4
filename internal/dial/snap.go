package dial

import "math"

// Snap returns rotation corrected onto the nearest of the 99 markers using the
// shortest angular path. The correction never exceeds half a marker step, so
// the discrete value is unchanged. Idempotent: snapping a snapped rotation
// returns it untouched.
func Snap(rotation float64) float64 {
	positive := normalize(rotation)
	nearest := math.Round(positive/MarkerAngle) * MarkerAngle
	return rotation + wrapDelta(nearest-positive)
}

// Settle snaps the decoder's rotation onto the nearest marker and recomputes
// the value. Called on pointer release, and by the engine after a drag has
// been motionless for SettleQuiet.
func (d *Decoder) Settle() {
	d.state.Rotation = Snap(d.state.Rotation)
	d.state.Value = valueFor(d.state.Rotation)
}
