package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"realty-calc/domain"
	"realty-calc/finance"
	"realty-calc/repository"
	"realty-calc/telemetry"
)

// ErrNoAffordableTerm is returned when every term in the range costs more
// per month than the buyer's budget.
var ErrNoAffordableTerm = fmt.Errorf("%w: no term fits the monthly budget", ErrInvalidInput)

type TermComparisonService struct {
	calculator
	loanService *LoanService
}

func NewTermComparisonService(loanService *LoanService,
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
	opts ...Option,
) *TermComparisonService {
	return &TermComparisonService{
		calculator:  newCalculator(repo, cache, opts),
		loanService: loanService,
	}
}

// CompareTerms prices the loan at every whole-year term in the range and
// ranks the affordable ones by the buyer's preference. With Explain set the
// top recommendation's reason comes from the advisor.
func (s *TermComparisonService) CompareTerms(ctx context.Context, input domain.TermComparisonInput) (domain.TermComparisonResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "service.CompareTerms")
	defer span.End()

	clean, err := validateTermComparison(input)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return domain.TermComparisonResult{}, err
	}

	var result domain.TermComparisonResult
	key, hit := s.lookup(ctx, domain.KindTerm, clean, &result)
	if !hit {
		started := time.Now()
		result, err = s.rank(clean)
		status := finance.StatusOK
		if err != nil {
			status = finance.StatusInvalidInput
		}
		s.observe(domain.KindTerm, status, started)
		if err != nil {
			telemetry.RecordError(ctx, err)
			return domain.TermComparisonResult{}, err
		}
		s.remember(ctx, key, result)
		s.record(ctx, domain.KindTerm, clean, result, status)
	}

	span.SetAttributes(
		attribute.Int("calc.recommended_term_years", result.RecommendedTermYears),
		attribute.Bool("calc.cache_hit", hit),
	)

	if input.Explain {
		result.Recommendations[0].Reason = s.advisor.ExplainTerm(ctx, clean.Preference, result.Recommendations[0])
	}
	return result, nil
}

func validateTermComparison(input domain.TermComparisonInput) (domain.TermComparisonInput, error) {
	if input.Principal <= 0 {
		return input, invalidf("principal must be positive")
	}
	if input.Principal > MaxAmount {
		return input, invalidf("principal exceeds the maximum of %.2f", MaxAmount)
	}
	if input.AnnualRatePercent <= 0 {
		return input, invalidf("interest rate must be positive")
	}
	if input.AnnualRatePercent > MaxInterestRatePercent {
		return input, invalidf("interest rate exceeds the maximum of %.2f%%", MaxInterestRatePercent)
	}
	if input.MinTermYears <= 0 || input.MaxTermYears <= 0 {
		return input, invalidf("terms must be positive")
	}
	if input.MinTermYears > input.MaxTermYears {
		return input, invalidf("minimum term is greater than maximum term")
	}
	if input.MaxTermYears > MaxTermYears {
		return input, invalidf("maximum term exceeds the limit of %d years", MaxTermYears)
	}
	if input.MaxTermYears-input.MinTermYears > MaxTermRangeYears {
		return input, invalidf("term range exceeds %d years", MaxTermRangeYears)
	}
	if input.MaxMonthlyPayment <= 0 {
		return input, invalidf("maximum monthly payment must be positive")
	}

	switch input.Preference {
	case "":
		input.Preference = PreferenceBalanced
	case PreferenceMinimizeInterest, PreferenceMinimizePayment, PreferenceBalanced:
	default:
		return input, invalidf("unknown preference %q", input.Preference)
	}

	input.DownPayment = sanitize(input.DownPayment)
	input.Explain = false
	return input, nil
}

func (s *TermComparisonService) rank(input domain.TermComparisonInput) (domain.TermComparisonResult, error) {
	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermYears; term <= input.MaxTermYears; term++ {
		loan := s.loanService.price(domain.LoanInput{
			Principal:         input.Principal,
			DownPayment:       input.DownPayment,
			AnnualRatePercent: input.AnnualRatePercent,
			TermYears:         float64(term),
			MaxSchedulePoints: 1,
		})
		if loan.Status != finance.StatusOK {
			continue
		}
		if loan.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermYears:      term,
			MonthlyPayment: loan.MonthlyPayment,
			TotalInterest:  loan.TotalInterest,
			Reason:         generateReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermComparisonResult{}, ErrNoAffordableTerm
	}

	scoreRecommendations(recommendations, input)

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].TermYears < recommendations[j].TermYears
	})

	return domain.TermComparisonResult{
		RecommendedTermYears: recommendations[0].TermYears,
		Recommendations:      recommendations,
	}, nil
}

// scoreRecommendations rates each term from 0 to 10 against the other
// affordable terms and weights the parts by preference.
func scoreRecommendations(recs []domain.TermRecommendation, input domain.TermComparisonInput) {
	minInterest, maxInterest := recs[0].TotalInterest, recs[0].TotalInterest
	minPayment, maxPayment := recs[0].MonthlyPayment, recs[0].MonthlyPayment
	for _, r := range recs[1:] {
		minInterest = min(minInterest, r.TotalInterest)
		maxInterest = max(maxInterest, r.TotalInterest)
		minPayment = min(minPayment, r.MonthlyPayment)
		maxPayment = max(maxPayment, r.MonthlyPayment)
	}

	for i := range recs {
		interestScore := normalizedScore(recs[i].TotalInterest, minInterest, maxInterest)
		paymentScore := normalizedScore(recs[i].MonthlyPayment, minPayment, maxPayment)
		termScore := normalizedScore(float64(recs[i].TermYears), float64(input.MinTermYears), float64(input.MaxTermYears))

		var score float64
		switch input.Preference {
		case PreferenceMinimizeInterest:
			score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
		case PreferenceMinimizePayment:
			score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
		default:
			score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
		}
		recs[i].Score = roundTo2Decimals(score)
	}
}

// normalizedScore is 10 at lo and 0 at hi. A flat range scores 10.
func normalizedScore(v, lo, hi float64) float64 {
	if hi <= lo {
		return 10
	}
	return 10 * (hi - v) / (hi - lo)
}

func generateReason(preference string) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return "Term chosen to keep total interest low"
	case PreferenceMinimizePayment:
		return "Term chosen to keep the monthly installment low"
	default:
		return "Balance between monthly installment and total cost"
	}
}
