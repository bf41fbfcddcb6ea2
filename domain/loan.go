package domain

import "realty-calc/finance"

type LoanInput struct {
	Principal         float64 `json:"principal"`
	DownPayment       float64 `json:"down_payment"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         float64 `json:"term_years"`
	MaxSchedulePoints int     `json:"max_schedule_points,omitempty"`
	Explain           bool    `json:"explain,omitempty"`
}

type SchedulePoint struct {
	Period             string  `json:"period"`
	RemainingPrincipal float64 `json:"remaining_principal"`
	CumulativePaid     float64 `json:"cumulative_paid"`
}

type LoanResult struct {
	EffectivePrincipal float64         `json:"effective_principal"`
	MonthlyPayment     float64         `json:"monthly_payment"`
	YearlyPayment      float64         `json:"yearly_payment"`
	TotalPayment       float64         `json:"total_payment"`
	TotalInterest      float64         `json:"total_interest"`
	Schedule           []SchedulePoint `json:"schedule"`
	Status             finance.Status  `json:"status"`
	Explanation        string          `json:"explanation,omitempty"`
}
