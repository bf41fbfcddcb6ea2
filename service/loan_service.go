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

type LoanService struct {
	calculator
	defaultPoints int
}

// NewLoanService creates a LoanService. defaultPoints is the schedule
// length used when a request does not ask for one.
func NewLoanService(repo repository.CalculationRepository,
	cache repository.CacheRepository,
	defaultPoints int,
	opts ...Option,
) *LoanService {
	if defaultPoints <= 0 {
		defaultPoints = finance.DefaultMaxSchedulePoints
	}
	return &LoanService{
		calculator:    newCalculator(repo, cache, opts),
		defaultPoints: defaultPoints,
	}
}

// CalculateLoan prices the loan and builds its yearly amortization schedule.
func (s *LoanService) CalculateLoan(ctx context.Context, input domain.LoanInput) (domain.LoanResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "service.CalculateLoan")
	defer span.End()

	clean, err := s.validate(input)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return domain.LoanResult{}, err
	}

	var result domain.LoanResult
	key, hit := s.lookup(ctx, domain.KindLoan, clean, &result)
	if !hit {
		started := time.Now()
		result = s.price(clean)
		s.observe(domain.KindLoan, result.Status, started)
		s.remember(ctx, key, result)
		s.record(ctx, domain.KindLoan, clean, result, result.Status)
	}

	span.SetAttributes(
		attribute.String("calc.status", string(result.Status)),
		attribute.Bool("calc.cache_hit", hit),
	)

	if input.Explain {
		result.Explanation = s.advisor.ExplainLoan(ctx, clean, result)
	}
	return result, nil
}

func (s *LoanService) validate(input domain.LoanInput) (domain.LoanInput, error) {
	if input.Principal > MaxAmount {
		return domain.LoanInput{}, invalidf("principal exceeds the maximum of %.2f", MaxAmount)
	}
	if input.AnnualRatePercent > MaxInterestRatePercent {
		return domain.LoanInput{}, invalidf("interest rate exceeds the maximum of %.2f%%", MaxInterestRatePercent)
	}
	if input.TermYears > MaxTermYears {
		return domain.LoanInput{}, invalidf("term exceeds the maximum of %d years", MaxTermYears)
	}
	if input.MaxSchedulePoints > MaxSchedulePoints {
		return domain.LoanInput{}, invalidf("at most %d schedule points are allowed", MaxSchedulePoints)
	}

	points := input.MaxSchedulePoints
	if points <= 0 {
		points = s.defaultPoints
	}
	return domain.LoanInput{
		Principal:         sanitize(input.Principal),
		DownPayment:       sanitize(input.DownPayment),
		AnnualRatePercent: sanitize(input.AnnualRatePercent),
		TermYears:         sanitize(input.TermYears),
		MaxSchedulePoints: points,
	}, nil
}

// price runs the amortization without touching cache, history or metrics.
func (s *LoanService) price(input domain.LoanInput) domain.LoanResult {
	plan := finance.ComputeSchedule(finance.LoanTerms{
		Principal:         input.Principal,
		DownPayment:       input.DownPayment,
		AnnualRatePercent: input.AnnualRatePercent,
		TermYears:         input.TermYears,
	}, finance.ScheduleOptions{MaxSchedulePoints: input.MaxSchedulePoints})

	schedule := make([]domain.SchedulePoint, 0, len(plan.Schedule))
	for _, p := range plan.Schedule {
		schedule = append(schedule, domain.SchedulePoint{
			Period:             p.PeriodLabel,
			RemainingPrincipal: roundTo2Decimals(p.RemainingPrincipal),
			CumulativePaid:     roundTo2Decimals(p.CumulativePaid),
		})
	}

	return domain.LoanResult{
		EffectivePrincipal: roundTo2Decimals(plan.EffectivePrincipal),
		MonthlyPayment:     roundTo2Decimals(plan.EMI),
		YearlyPayment:      roundTo2Decimals(plan.YearlyPayment),
		TotalPayment:       roundTo2Decimals(plan.TotalPayment),
		TotalInterest:      roundTo2Decimals(plan.TotalInterest),
		Schedule:           schedule,
		Status:             plan.Status,
	}
}
