package finance

import "math"

const (
	DefaultTolerance     = 1e-7
	DefaultMaxIterations = 1000
)

// SolverOptions tunes NewtonRaphson. Zero fields use the defaults.
type SolverOptions struct {
	Tolerance     float64
	MaxIterations int
}

func (o SolverOptions) withDefaults() SolverOptions {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Root is the outcome of a root search.
type Root struct {
	Value      float64
	Iterations int
	Status     Status
}

// NewtonRaphson searches for x with f(x) = 0 starting at guess.
//
// It stops once two successive iterates differ by less than the tolerance.
// When the iteration budget runs out the last iterate is returned with
// StatusNotConverged; it is not guaranteed to be a root. A zero derivative
// or a non-finite iterate yields Value 0.
func NewtonRaphson(f, df func(float64) float64, guess float64, opts SolverOptions) Root {
	opts = opts.withDefaults()

	x := guess
	for i := 1; i <= opts.MaxIterations; i++ {
		slope := df(x)
		if slope == 0 {
			return Root{Value: 0, Iterations: i, Status: StatusZeroDerivative}
		}

		next := x - f(x)/slope
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return Root{Value: 0, Iterations: i, Status: StatusNotANumber}
		}

		if math.Abs(next-x) < opts.Tolerance {
			return Root{Value: next, Iterations: i, Status: StatusOK}
		}
		x = next
	}

	return Root{Value: x, Iterations: opts.MaxIterations, Status: StatusNotConverged}
}
