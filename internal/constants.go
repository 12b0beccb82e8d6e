package internal

const (
	// Epsilon bounds knot comparisons and rational denominators.
	Epsilon = 1e-10

	// Tolerance is the geometric tolerance used for degenerate vectors.
	Tolerance = 1e-6
)
