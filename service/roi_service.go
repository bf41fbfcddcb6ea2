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

type ROIService struct {
	calculator
}

func NewROIService(repo repository.CalculationRepository,
	cache repository.CacheRepository,
	opts ...Option,
) *ROIService {
	return &ROIService{calculator: newCalculator(repo, cache, opts)}
}

// CalculateROI compares the rent collected over the tenure with the price.
func (s *ROIService) CalculateROI(ctx context.Context, input domain.ROIInput) (domain.ROIResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "service.CalculateROI")
	defer span.End()

	if input.PropertyPrice > MaxAmount {
		err := invalidf("property price exceeds the maximum of %.2f", MaxAmount)
		telemetry.RecordError(ctx, err)
		return domain.ROIResult{}, err
	}
	if input.MonthlyRent > MaxAmount {
		err := invalidf("monthly rent exceeds the maximum of %.2f", MaxAmount)
		telemetry.RecordError(ctx, err)
		return domain.ROIResult{}, err
	}
	if input.TenureYears > MaxTermYears || input.LockInYears > MaxTermYears {
		err := invalidf("tenure exceeds the maximum of %d years", MaxTermYears)
		telemetry.RecordError(ctx, err)
		return domain.ROIResult{}, err
	}

	clean := domain.ROIInput{
		PropertyPrice: sanitize(input.PropertyPrice),
		MonthlyRent:   sanitize(input.MonthlyRent),
		LockInYears:   sanitize(input.LockInYears),
		TenureYears:   sanitize(input.TenureYears),
	}

	var result domain.ROIResult
	key, hit := s.lookup(ctx, domain.KindROI, clean, &result)
	if !hit {
		started := time.Now()
		roi := finance.ComputeROI(finance.ROIInputs{
			PropertyPrice: clean.PropertyPrice,
			MonthlyRent:   clean.MonthlyRent,
			LockInYears:   clean.LockInYears,
			TenureYears:   clean.TenureYears,
		})
		s.observe(domain.KindROI, roi.Status, started)

		result = domain.ROIResult{
			ROI:           roundTo(roi.ROI, 4),
			TotalReturns:  roundTo2Decimals(roi.TotalReturns),
			MonthlyReturn: roundTo(roi.MonthlyReturn, 4),
			YearlyReturn:  roundTo(roi.YearlyReturn, 4),
			Status:        roi.Status,
		}
		s.remember(ctx, key, result)
		s.record(ctx, domain.KindROI, clean, result, result.Status)
	}

	span.SetAttributes(
		attribute.String("calc.status", string(result.Status)),
		attribute.Bool("calc.cache_hit", hit),
	)

	if input.Explain {
		result.Explanation = s.advisor.ExplainROI(ctx, clean, result)
	}
	return result, nil
}
