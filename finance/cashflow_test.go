package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNPV(t *testing.T) {
	assert.Equal(t, -1000.0, NPV(0.1, 1000, nil))
	assert.InDelta(t, 0, NPV(0.1, 1000, []float64{1100}), 1e-9)
	assert.InDelta(t, 500, NPV(0, 1000, []float64{700, 800}), 1e-9)

	series := CashFlowSeries{InitialInvestment: 1000, Flows: []float64{600, 600}}
	assert.Equal(t, NPV(0.05, 1000, []float64{600, 600}), series.NPV(0.05))
}

func TestNPVDerivative_MatchesFiniteDifference(t *testing.T) {
	flows := []float64{20000, 25000, 30000, 35000, 40000}
	const h = 1e-6
	rate := 0.08

	numeric := (NPV(rate+h, 100000, flows) - NPV(rate-h, 100000, flows)) / (2 * h)
	assert.InDelta(t, numeric, NPVDerivative(rate, flows), 1e-2)
}

func TestFilterZeroFlows(t *testing.T) {
	assert.Equal(t, []float64{5, -3, 2}, FilterZeroFlows([]float64{0, 5, 0, -3, 2, 0}))
	assert.Empty(t, FilterZeroFlows([]float64{0, 0}))
	assert.Empty(t, FilterZeroFlows(nil))
}
