// Package finance holds the pure calculators behind the property tools:
// an IRR solver built on Newton-Raphson, NPV of a cash-flow series, loan
// amortization and rental ROI.
//
// Nothing here returns an error or panics. Degenerate input produces a
// zero-valued result tagged with a Status so callers can tell "zero because
// the inputs are zero" apart from "zero because the input was unusable".
package finance

// Status tags the outcome of a calculation.
type Status string

const (
	StatusOK             Status = "ok"
	StatusInvalidInput   Status = "invalid_input"
	StatusNoCashFlows    Status = "no_cash_flows"
	StatusNoPositiveFlow Status = "no_positive_flow"
	StatusZeroDerivative Status = "zero_derivative"
	StatusNotANumber     Status = "not_a_number"
	StatusNotConverged   Status = "not_converged"
)

// OK reports whether the value it tags is a computed, meaningful number.
func (s Status) OK() bool {
	return s == StatusOK
}
