package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"realty-calc/domain"
	"realty-calc/finance"
	"realty-calc/repository"
	"realty-calc/telemetry"
)

type IRRService struct {
	calculator
}

func NewIRRService(repo repository.CalculationRepository,
	cache repository.CacheRepository,
	opts ...Option,
) *IRRService {
	return &IRRService{calculator: newCalculator(repo, cache, opts)}
}

// CalculateIRR solves for the rate at which the cash flows repay the
// initial investment. Series the solver cannot handle come back with a
// non-ok Status and a nil error.
func (s *IRRService) CalculateIRR(ctx context.Context, input domain.IRRInput) (domain.IRRResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "service.CalculateIRR")
	defer span.End()

	if len(input.CashFlows) > MaxCashFlowPeriods {
		err := invalidf("at most %d cash flows are allowed", MaxCashFlowPeriods)
		telemetry.RecordError(ctx, err)
		return domain.IRRResult{}, err
	}
	if input.InitialInvestment > MaxAmount {
		err := invalidf("initial investment exceeds the maximum of %.2f", MaxAmount)
		telemetry.RecordError(ctx, err)
		return domain.IRRResult{}, err
	}

	clean := domain.IRRInput{
		InitialInvestment: sanitize(input.InitialInvestment),
		CashFlows:         make([]float64, len(input.CashFlows)),
	}
	for i, cf := range input.CashFlows {
		clean.CashFlows[i] = sanitizeSigned(cf)
	}

	var result domain.IRRResult
	key, hit := s.lookup(ctx, domain.KindIRR, clean, &result)
	if !hit {
		started := time.Now()
		solved := finance.SolveIRR(clean.InitialInvestment, clean.CashFlows)
		s.metrics.iterations(solved.Iterations)
		s.observe(domain.KindIRR, solved.Status, started)

		result = domain.IRRResult{
			Rate:        roundTo(solved.Rate, 6),
			RatePercent: roundTo(solved.Rate*100, 4),
			NPVAtRate:   roundTo2Decimals(solved.NPVAtRate),
			Iterations:  solved.Iterations,
			Status:      solved.Status,
		}
		s.remember(ctx, key, result)
		s.record(ctx, domain.KindIRR, clean, result, result.Status)
	}

	span.SetAttributes(
		attribute.String("calc.status", string(result.Status)),
		attribute.Bool("calc.cache_hit", hit),
	)

	if input.Explain {
		result.Explanation = s.advisor.ExplainIRR(ctx, clean, result)
	}
	return result, nil
}
