package repository

import (
	"context"

	"realty-calc/domain"
)

// CalculationRepository stores calculator runs for the history view.
type CalculationRepository interface {
	Save(ctx context.Context, calc domain.Calculation) error
	// List returns the most recent calculations first. An empty kind
	// matches every kind; limit <= 0 means no limit.
	List(ctx context.Context, kind domain.CalculationKind, limit int) ([]domain.Calculation, error)
}
