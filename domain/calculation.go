package domain

import (
	"encoding/json"
	"time"

	"realty-calc/finance"
)

// CalculationKind names the calculator that produced a Calculation.
type CalculationKind string

const (
	KindIRR  CalculationKind = "irr"
	KindLoan CalculationKind = "loan"
	KindROI  CalculationKind = "roi"
	KindTerm CalculationKind = "term"
)

// Valid reports whether k is one of the known kinds.
func (k CalculationKind) Valid() bool {
	switch k {
	case KindIRR, KindLoan, KindROI, KindTerm:
		return true
	}
	return false
}

// Calculation is a stored record of one calculator run.
type Calculation struct {
	ID        string          `json:"id"`
	Kind      CalculationKind `json:"kind"`
	Input     json.RawMessage `json:"input"`
	Output    json.RawMessage `json:"output"`
	Status    finance.Status  `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
