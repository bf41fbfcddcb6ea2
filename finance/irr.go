package finance

import "math"

// InitialRateGuess seeds the IRR search.
const InitialRateGuess = 0.10

// IRRResult is the internal rate of return of a series.
type IRRResult struct {
	Rate       float64
	NPVAtRate  float64
	Iterations int
	Status     Status
}

// SolveIRR finds the rate at which the NPV of the series is zero.
//
// Zero flows are removed first. A series with no flows left, a
// non-positive initial investment or no positive flow is not handed to the
// solver and reports Rate 0 with the matching status.
func SolveIRR(initialInvestment float64, flows []float64) IRRResult {
	return SolveIRRWithOptions(initialInvestment, flows, SolverOptions{})
}

// SolveIRRWithOptions is SolveIRR with explicit solver settings.
func SolveIRRWithOptions(initialInvestment float64, flows []float64, opts SolverOptions) IRRResult {
	flows = FilterZeroFlows(flows)
	if len(flows) == 0 {
		return IRRResult{Status: StatusNoCashFlows}
	}
	if !(initialInvestment > 0) || math.IsInf(initialInvestment, 0) {
		return IRRResult{Status: StatusInvalidInput}
	}
	if !hasPositive(flows) {
		return IRRResult{Status: StatusNoPositiveFlow}
	}

	root := NewtonRaphson(
		func(r float64) float64 { return NPV(r, initialInvestment, flows) },
		func(r float64) float64 { return NPVDerivative(r, flows) },
		InitialRateGuess,
		opts,
	)

	res := IRRResult{
		Rate:       root.Value,
		Iterations: root.Iterations,
		Status:     root.Status,
	}
	if root.Status == StatusOK || root.Status == StatusNotConverged {
		res.NPVAtRate = NPV(root.Value, initialInvestment, flows)
		if math.IsNaN(res.NPVAtRate) || math.IsInf(res.NPVAtRate, 0) {
			return IRRResult{Iterations: root.Iterations, Status: StatusNotANumber}
		}
	}
	return res
}

func hasPositive(flows []float64) bool {
	for _, f := range flows {
		if f > 0 {
			return true
		}
	}
	return false
}
