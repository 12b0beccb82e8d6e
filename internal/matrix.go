package internal

import "math"

// Solve the 2x2 system
//
//	a*x + b*y = f
//	c*x + d*y = s
//
// by elimination on the first column.
//
// **returns**
// + x, y and false when the system is singular
func Mat2Solve(a, b, c, d, f, s float64) (x, y float64, ok bool) {
	det := a*d - b*c
	if math.Abs(det) < Epsilon {
		return 0, 0, false
	}

	if math.Abs(a) < Epsilon {
		// swap rows so the pivot is non-zero
		a, b, f, c, d, s = c, d, s, a, b, f
	}

	cDivA := c / a
	y = (s - cDivA*f) / (d - b*cDivA)
	x = (f - b*y) / a
	return x, y, true
}
