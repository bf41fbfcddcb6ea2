package domain

import "realty-calc/finance"

type ROIInput struct {
	PropertyPrice float64 `json:"property_price"`
	MonthlyRent   float64 `json:"monthly_rent"`
	LockInYears   float64 `json:"lock_in_years"`
	TenureYears   float64 `json:"tenure_years"`
	Explain       bool    `json:"explain,omitempty"`
}

// ROIResult percentages are plain percent values, 12.5 meaning 12.5%.
type ROIResult struct {
	ROI           float64        `json:"roi"`
	TotalReturns  float64        `json:"total_returns"`
	MonthlyReturn float64        `json:"monthly_return"`
	YearlyReturn  float64        `json:"yearly_return"`
	Status        finance.Status `json:"status"`
	Explanation   string         `json:"explanation,omitempty"`
}
