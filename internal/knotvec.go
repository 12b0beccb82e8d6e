package internal

import (
	"math"
)

type KnotVec []float64

func (this KnotVec) Clone() KnotVec {
	return append(KnotVec(nil), this...)
}

// Parametric domain of a clamped knot vector of the given degree
//
// **returns**
// + knots[degree] and knots[n+1], where n is the highest control point index
func (this KnotVec) Domain(degree int) (min, max float64) {
	n := len(this) - degree - 2
	return this[degree], this[n+1]
}

// Find the span on the knot Array without supplying n
//
// **params**
// + integer degree of function
// + float parameter
//
// **returns**
// + the index of the knot span
//
func (this KnotVec) Span(degree int, u float64) int {
	m := len(this) - 1
	n := m - degree - 1

	return this.SpanGivenN(n, degree, u)
}

// Find the span on the knot Array knots of the given parameter
// (corresponds to algorithm 2.1 from The NURBS book, Piegl & Tiller 2nd edition)
//
// **params**
// + integer number of basis functions - 1 = knots.length - degree - 2
// + integer degree of function
// + parameter
//
// **returns**
// + the index of the knot span
//
func (this KnotVec) SpanGivenN(n int, degree int, u float64) int {
	// closed right end of the domain
	if u >= this[n+1] {
		return n
	}

	if u < this[degree] {
		return degree
	}

	low, high := degree, n+1
	mid := (low + high) / 2

	for u < this[mid] || u >= this[mid+1] {
		if u < this[mid] {
			high = mid
		} else {
			low = mid
		}

		mid = (low + high) / 2
	}

	return mid
}

//
// Determine the multiplicities of the values in a knot vector
//
// **returns**
// + slice of (knot value, multiplicity) pairs in increasing knot order
//
func (this KnotVec) Multiplicities() []KnotMultiplicity {
	if len(this) == 0 {
		return nil
	}

	mults := []KnotMultiplicity{{this[0], 0}}

	var currI int
	for _, knot := range this {
		if math.Abs(knot-mults[currI].Knot) > Epsilon {
			mults = append(mults, KnotMultiplicity{knot, 0})
			currI++
		}

		mults[currI].Mult++
	}

	return mults
}

// Whether the first and the last knot each repeat exactly degree+1 times
func (this KnotVec) IsClamped(degree int) bool {
	if len(this) < (degree+1)*2 {
		return false
	}

	mults := this.Multiplicities()

	return mults[0].Mult == degree+1 && mults[len(mults)-1].Mult == degree+1
}

func (this KnotVec) IsNonDecreasing() bool {
	if len(this) == 0 {
		return true
	}

	rep := this[0]
	for _, knot := range this[1:] {
		if knot < rep-Epsilon {
			return false
		}
		rep = knot
	}
	return true
}

type KnotMultiplicity struct {
	Knot float64
	Mult int
}
