package game

// TargetMax is the inclusive upper bound for target numbers. Targets stop at
// 90 even though the dial reads up to 98, so every target sits on a printed
// number region of the face.
const TargetMax = 90

// NewTargets draws three distinct integers uniformly from [0,TargetMax].
// Generation order is preserved as target order; the combination [47, 12, 83]
// is not the combination [12, 47, 83].
//
// intn must behave like math/rand/v2.IntN. Tests pass a deterministic stub.
func NewTargets(intn func(n int) int) [3]int {
	var targets [3]int
	seen := make(map[int]bool, 3)
	for i := 0; i < 3; {
		v := intn(TargetMax + 1)
		if seen[v] {
			continue
		}
		seen[v] = true
		targets[i] = v
		i++
	}
	return targets
}
