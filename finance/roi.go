package finance

// ROIInputs describes a rental investment.
type ROIInputs struct {
	PropertyPrice float64
	MonthlyRent   float64
	LockInYears   float64
	TenureYears   float64
}

// ROIResult holds percentages except TotalReturns, which is money.
type ROIResult struct {
	ROI           float64
	TotalReturns  float64
	MonthlyReturn float64
	YearlyReturn  float64
	Status        Status
}

// ComputeROI compares the rent collected over the agreement tenure with
// the property price. A zero price yields an all-zero result.
func ComputeROI(in ROIInputs) ROIResult {
	if in.PropertyPrice == 0 {
		return ROIResult{Status: StatusInvalidInput}
	}

	annualRent := in.MonthlyRent * monthsPerYear
	totalReturns := annualRent * in.TenureYears

	return ROIResult{
		ROI:           (totalReturns - in.PropertyPrice) / in.PropertyPrice * 100,
		TotalReturns:  totalReturns,
		MonthlyReturn: in.MonthlyRent / in.PropertyPrice * 100,
		YearlyReturn:  annualRent / in.PropertyPrice * 100,
		Status:        StatusOK,
	}
}
