package genetics

import "math"

// math64IsNaNOrInf reports whether v is not a finite real number, used to
// reject non-finite connection weights per the data model invariant.
func math64IsNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
