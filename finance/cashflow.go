package finance

import "math"

// CashFlowSeries is an outlay at time 0 followed by one flow per period.
// Flows[i] falls in period i+1.
type CashFlowSeries struct {
	InitialInvestment float64
	Flows             []float64
}

// NPV of the series at rate.
func (s CashFlowSeries) NPV(rate float64) float64 {
	return NPV(rate, s.InitialInvestment, s.Flows)
}

// NPV returns -initialInvestment + Σ flows[i] / (1+rate)^(i+1).
func NPV(rate, initialInvestment float64, flows []float64) float64 {
	npv := -initialInvestment
	for i, flow := range flows {
		npv += flow / math.Pow(1+rate, float64(i+1))
	}
	return npv
}

// NPVDerivative is dNPV/drate: -Σ (i+1)·flows[i] / (1+rate)^(i+2).
// The initial investment is a constant and drops out.
func NPVDerivative(rate float64, flows []float64) float64 {
	d := 0.0
	for i, flow := range flows {
		d -= float64(i+1) * flow / math.Pow(1+rate, float64(i+2))
	}
	return d
}

// FilterZeroFlows returns the non-zero flows in their original order.
// Dropping a zero moves every later flow one period earlier, which is how
// the calculator treats blank rows.
func FilterZeroFlows(flows []float64) []float64 {
	out := make([]float64, 0, len(flows))
	for _, f := range flows {
		if f != 0 {
			out = append(out, f)
		}
	}
	return out
}
