package finance

import (
	"fmt"
	"math"
)

const (
	// MaxDownPaymentRatio caps the down payment at 80% of the price.
	MaxDownPaymentRatio = 0.8
	// DefaultMaxSchedulePoints is how many yearly points a chart shows.
	DefaultMaxSchedulePoints = 10

	monthsPerYear = 12
)

// LoanTerms describes a fixed-rate loan.
type LoanTerms struct {
	Principal         float64
	DownPayment       float64
	AnnualRatePercent float64
	TermYears         float64
}

// ClampedDownPayment keeps the down payment within [0, 0.8 × Principal].
func (t LoanTerms) ClampedDownPayment() float64 {
	maxDown := math.Max(0, t.Principal*MaxDownPaymentRatio)
	return math.Min(math.Max(t.DownPayment, 0), maxDown)
}

// EffectivePrincipal is the financed amount, never negative.
func (t LoanTerms) EffectivePrincipal() float64 {
	return math.Max(0, t.Principal-t.ClampedDownPayment())
}

// AmortizationPoint is the loan state at the end of a year.
type AmortizationPoint struct {
	PeriodLabel        string
	RemainingPrincipal float64
	CumulativePaid     float64
}

// AmortizationResult is the payment plan of a loan.
type AmortizationResult struct {
	EffectivePrincipal float64
	EMI                float64
	YearlyPayment      float64
	TotalPayment       float64
	TotalInterest      float64
	Schedule           []AmortizationPoint
	Status             Status
}

// ScheduleOptions controls how much of the schedule is emitted.
type ScheduleOptions struct {
	// MaxSchedulePoints caps the yearly points. It truncates the display
	// only; totals always cover the full term. Zero means the default.
	MaxSchedulePoints int
}

// EMI is the equated monthly installment for principal at annualRatePercent
// over termYears. It returns 0 for non-positive inputs.
func EMI(principal, annualRatePercent, termYears float64) float64 {
	if principal <= 0 || annualRatePercent <= 0 || termYears <= 0 {
		return 0
	}
	r := annualRatePercent / 100 / monthsPerYear
	n := termYears * monthsPerYear
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

// ComputeSchedule prices the loan and walks it month by month, emitting the
// remaining principal and amount paid so far at the end of each year.
//
// The walk stops after the year in which the principal is cleared, or after
// MaxSchedulePoints years, whichever comes first.
func ComputeSchedule(terms LoanTerms, opts ScheduleOptions) AmortizationResult {
	maxPoints := opts.MaxSchedulePoints
	if maxPoints <= 0 {
		maxPoints = DefaultMaxSchedulePoints
	}

	principal := terms.EffectivePrincipal()
	if !(principal > 0) || !(terms.AnnualRatePercent > 0) || !(terms.TermYears > 0) {
		return AmortizationResult{Schedule: []AmortizationPoint{}, Status: StatusInvalidInput}
	}

	emi := EMI(principal, terms.AnnualRatePercent, terms.TermYears)
	if math.IsNaN(emi) || math.IsInf(emi, 0) {
		return AmortizationResult{Schedule: []AmortizationPoint{}, Status: StatusNotANumber}
	}

	months := terms.TermYears * monthsPerYear
	res := AmortizationResult{
		EffectivePrincipal: principal,
		EMI:                emi,
		YearlyPayment:      emi * monthsPerYear,
		TotalPayment:       emi * months,
		TotalInterest:      emi*months - principal,
		Status:             StatusOK,
	}

	years := int(math.Ceil(terms.TermYears))
	if years > maxPoints {
		years = maxPoints
	}
	totalMonths := int(math.Ceil(months))

	monthlyRate := terms.AnnualRatePercent / 100 / monthsPerYear
	remaining := principal
	paid := 0.0
	schedule := make([]AmortizationPoint, 0, years)

	month := 0
	for year := 1; year <= years; year++ {
		for m := 0; m < monthsPerYear && month < totalMonths && remaining > 0; m++ {
			interest := remaining * monthlyRate
			principalPortion := math.Min(emi-interest, remaining)
			remaining -= principalPortion
			paid += interest + principalPortion
			month++
		}
		if remaining < 0 {
			remaining = 0
		}

		schedule = append(schedule, AmortizationPoint{
			PeriodLabel:        fmt.Sprintf("Year %d", year),
			RemainingPrincipal: remaining,
			CumulativePaid:     paid,
		})
		if remaining <= 0 || month >= totalMonths {
			break
		}
	}

	res.Schedule = schedule
	return res
}
