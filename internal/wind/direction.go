package wind

import "math"

// Classify maps a bearing in [0,360) to the octant whose 45° sector is centered on it,
// so 337.5°–22.5° is N. Callers reduce out-of-range bearings with ReduceDegrees first.
func Classify(deg float64) Octant {
	ix := int(math.Mod(deg+22.5, 360) / 45)
	return Octants[ix%OctantCount]
}

// ReduceDegrees wraps any bearing into [0,360).
func ReduceDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// a tiny negative remainder plus 360 rounds to 360; also folds -0
	if deg >= 360 || deg == 0 {
		return 0
	}
	return deg
}
