package nurbs

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrConfiguration = errors.New("nurbs: configuration error")
	ErrDomain        = errors.New("nurbs: parameter outside domain")
	ErrDegenerate    = errors.New("nurbs: degenerate rational denominator")
)

// ConfigurationError reports input that can never be evaluated: a bad grid
// resolution, a knot vector that does not fit its control points, or too few
// control points for the degree.
type ConfigurationError struct {
	Op     string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("nurbs: %s: %s", e.Op, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func configErrorf(op, format string, args ...any) error {
	return &ConfigurationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// DomainError reports a parameter outside [Min, Max].
type DomainError struct {
	Op       string
	T        float64
	Min, Max float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("nurbs: %s: parameter %g outside [%g, %g]", e.Op, e.T, e.Min, e.Max)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// DegeneracyError reports a rational denominator within Epsilon of zero.
type DegeneracyError struct {
	Op          string
	Denominator float64
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("nurbs: %s: rational denominator %g is degenerate", e.Op, e.Denominator)
}

func (e *DegeneracyError) Is(target error) bool { return target == ErrDegenerate }
