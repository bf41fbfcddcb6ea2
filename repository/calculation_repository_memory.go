package repository

import (
	"context"
	"sync"

	"realty-calc/domain"
)

// MaxMemoryCalculations is how many records the in-memory repository keeps.
// Older records are dropped first.
const MaxMemoryCalculations = 200

// CalculationRepositoryMemory is an in-memory implementation of CalculationRepository.
type CalculationRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.Calculation
}

// NewCalculationRepositoryMemory creates a new in-memory calculation repository.
func NewCalculationRepositoryMemory() *CalculationRepositoryMemory {
	return &CalculationRepositoryMemory{
		data: []domain.Calculation{},
	}
}

// Save stores the calculation in memory.
func (r *CalculationRepositoryMemory) Save(
	_ context.Context,
	calc domain.Calculation,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, calc)
	if over := len(r.data) - MaxMemoryCalculations; over > 0 {
		r.data = append(r.data[:0:0], r.data[over:]...)
	}
	return nil
}

func (r *CalculationRepositoryMemory) List(
	_ context.Context,
	kind domain.CalculationKind,
	limit int,
) ([]domain.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Calculation{}
	for i := len(r.data) - 1; i >= 0; i-- {
		if kind != "" && r.data[i].Kind != kind {
			continue
		}
		out = append(out, r.data[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
