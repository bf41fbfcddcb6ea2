package domain

import "realty-calc/finance"

type IRRInput struct {
	InitialInvestment float64   `json:"initial_investment"`
	CashFlows         []float64 `json:"cash_flows"`
	Explain           bool      `json:"explain,omitempty"`
}

type IRRResult struct {
	Rate        float64        `json:"rate"`
	RatePercent float64        `json:"rate_percent"`
	NPVAtRate   float64        `json:"npv_at_rate"`
	Iterations  int            `json:"iterations"`
	Status      finance.Status `json:"status"`
	Explanation string         `json:"explanation,omitempty"`
}
