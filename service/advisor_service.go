package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"realty-calc/domain"
	"realty-calc/finance"
)

const advisorSystemPrompt = "You are a property investment advisor on a real-estate listings site. " +
	"You explain calculator results to home buyers and investors in plain English, " +
	"in two or three sentences, quoting the numbers you are given and never inventing new ones."

// AdvisorConfig configures the chat completions endpoint.
type AdvisorConfig struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// AdvisorService turns calculator results into short explanations. Without
// an API key, or when the API fails, it falls back to fixed templates.
type AdvisorService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *retryablehttp.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewAdvisorService(cfg AdvisorConfig) *AdvisorService {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 3 * time.Second
	client.Logger = nil
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}

	return &AdvisorService{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		model:      cfg.Model,
		enabled:    cfg.APIKey != "" && cfg.APIURL != "",
		httpClient: client,
	}
}

// Enabled reports whether explanations come from the API.
func (s *AdvisorService) Enabled() bool {
	return s != nil && s.enabled
}

func (s *AdvisorService) ExplainIRR(ctx context.Context, input domain.IRRInput, result domain.IRRResult) string {
	fallback := irrFallback(result)
	if result.Status != finance.StatusOK {
		return fallback
	}
	prompt := fmt.Sprintf(`An investor puts %.2f into a property and expects these yearly cash flows: %v.
The internal rate of return is %.2f%% (NPV at that rate %.2f).
Explain what this IRR means for the investment and how it compares with a typical 6-8%% rental yield.`,
		input.InitialInvestment, input.CashFlows, result.RatePercent, result.NPVAtRate)
	return s.explain(ctx, prompt, fallback)
}

func (s *AdvisorService) ExplainLoan(ctx context.Context, input domain.LoanInput, result domain.LoanResult) string {
	fallback := loanFallback(result)
	if result.Status != finance.StatusOK {
		return fallback
	}
	prompt := fmt.Sprintf(`A buyer finances %.2f of a %.2f property (down payment %.2f) at %.2f%% a year for %.1f years.
The monthly installment is %.2f, total repaid %.2f, of which %.2f is interest.
Explain the cost of this loan and one way the buyer could reduce the interest.`,
		result.EffectivePrincipal, input.Principal, input.Principal-result.EffectivePrincipal,
		input.AnnualRatePercent, input.TermYears,
		result.MonthlyPayment, result.TotalPayment, result.TotalInterest)
	return s.explain(ctx, prompt, fallback)
}

func (s *AdvisorService) ExplainROI(ctx context.Context, input domain.ROIInput, result domain.ROIResult) string {
	fallback := roiFallback(input, result)
	if result.Status != finance.StatusOK {
		return fallback
	}
	prompt := fmt.Sprintf(`A property costs %.2f and rents for %.2f a month on a %.1f year agreement with a %.1f year lock-in.
Total rent collected is %.2f, a return on investment of %.2f%% (%.2f%% a year).
Explain whether the rent justifies the price.`,
		input.PropertyPrice, input.MonthlyRent, input.TenureYears, input.LockInYears,
		result.TotalReturns, result.ROI, result.YearlyReturn)
	return s.explain(ctx, prompt, fallback)
}

func (s *AdvisorService) ExplainTerm(ctx context.Context, preference string, top domain.TermRecommendation) string {
	fallback := termFallback(preference, top)
	prompt := fmt.Sprintf(`For a home loan the recommended term is %d years with a monthly installment of %.2f and total interest of %.2f.
The buyer's preference is %q. Explain why this term fits that preference.`,
		top.TermYears, top.MonthlyPayment, top.TotalInterest, preference)
	return s.explain(ctx, prompt, fallback)
}

func (s *AdvisorService) explain(ctx context.Context, prompt, fallback string) string {
	if !s.Enabled() {
		return fallback
	}
	text, err := s.callLLM(ctx, prompt)
	if err != nil {
		logrus.WithError(err).Warn("advisor request failed, using fallback explanation")
		return fallback
	}
	return text
}

func (s *AdvisorService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 200,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("advisor API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("advisor API returned no choices")
	}
	return chatResp.Choices[0].Message.Content, nil
}

func irrFallback(result domain.IRRResult) string {
	switch result.Status {
	case finance.StatusOK:
		return fmt.Sprintf("The investment returns %.2f%% a year: discounting every cash flow at that rate exactly recovers the initial outlay.", result.RatePercent)
	case finance.StatusNotConverged:
		return fmt.Sprintf("The rate search did not settle; %.2f%% is the last estimate and may not be accurate.", result.RatePercent)
	case finance.StatusNoCashFlows:
		return "Enter at least one non-zero cash flow to compute a rate of return."
	case finance.StatusNoPositiveFlow:
		return "None of the cash flows is positive, so the investment never pays back and has no rate of return."
	case finance.StatusInvalidInput:
		return "Enter a positive initial investment to compute a rate of return."
	default:
		return "A rate of return could not be computed for these cash flows."
	}
}

func loanFallback(result domain.LoanResult) string {
	if result.Status != finance.StatusOK {
		return "Enter a loan amount above the down payment, an interest rate and a term to see the installment."
	}
	return fmt.Sprintf("You would pay %.2f a month. Over the full term that adds up to %.2f, of which %.2f is interest.",
		result.MonthlyPayment, result.TotalPayment, result.TotalInterest)
}

func roiFallback(input domain.ROIInput, result domain.ROIResult) string {
	if result.Status != finance.StatusOK {
		return "Enter the property price to compute the return on investment."
	}
	return fmt.Sprintf("Rent over %.1f years totals %.2f, a %.2f%% return on the price, or %.2f%% a year.",
		input.TenureYears, result.TotalReturns, result.ROI, result.YearlyReturn)
}

func termFallback(preference string, top domain.TermRecommendation) string {
	switch preference {
	case PreferenceMinimizeInterest:
		return fmt.Sprintf("A %d year term keeps total interest down to %.2f while the installment of %.2f stays within your budget.",
			top.TermYears, top.TotalInterest, top.MonthlyPayment)
	case PreferenceMinimizePayment:
		return fmt.Sprintf("A %d year term brings the installment down to %.2f a month, at the cost of %.2f in interest.",
			top.TermYears, top.MonthlyPayment, top.TotalInterest)
	default:
		return fmt.Sprintf("A %d year term balances a %.2f monthly installment against %.2f of total interest.",
			top.TermYears, top.MonthlyPayment, top.TotalInterest)
	}
}
