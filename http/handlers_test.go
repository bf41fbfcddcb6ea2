package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-calc/domain"
	"realty-calc/finance"
	"realty-calc/repository"
	"realty-calc/service"
)

type testServer struct {
	handler http.Handler
	repo    *repository.CalculationRepositoryMemory
	metrics *RequestMetrics
	limiter *RateLimiter
}

func newTestServer(t *testing.T, burst int) *testServer {
	t.Helper()

	repo := repository.NewCalculationRepositoryMemory()
	reg := prometheus.NewRegistry()
	opts := []service.Option{service.WithMetrics(service.NewMetrics(reg))}

	loanService := service.NewLoanService(repo, nil, 0, opts...)
	handlers := Handlers{
		IRR:     NewIRRHandler(service.NewIRRService(repo, nil, opts...)),
		Loan:    NewLoanHandler(loanService),
		ROI:     NewROIHandler(service.NewROIService(repo, nil, opts...)),
		Terms:   NewTermComparisonHandler(service.NewTermComparisonService(loanService, repo, nil, opts...)),
		History: NewHistoryHandler(repo),
		Health:  HealthHandler("memory", "none"),
	}

	limiter := NewRateLimiter(60, burst)
	t.Cleanup(limiter.Stop)

	metrics := NewRequestMetrics(reg)
	return &testServer{
		handler: NewRouter(handlers, limiter, metrics, reg),
		repo:    repo,
		metrics: metrics,
		limiter: limiter,
	}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func TestCalculateLoanHandler_OK(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodPost, "/calc/loan", `{
		"principal": 10000,
		"down_payment": 0,
		"annual_rate_percent": 9.85,
		"term_years": 20
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result domain.LoanResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, finance.StatusOK, result.Status)
	assert.Equal(t, 95.51, result.MonthlyPayment)
	assert.Len(t, result.Schedule, 10)
}

func TestCalculateLoanHandler_DegenerateInputIsNotAnError(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodPost, "/calc/loan", `{"principal": 0, "annual_rate_percent": 9.85, "term_years": 20}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"invalid_input"`)
	assert.Contains(t, w.Body.String(), `"schedule":[]`)
}

func TestCalculateLoanHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodGet, "/calc/loan", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
}

func TestCalculateLoanHandler_BadRequest(t *testing.T) {
	srv := newTestServer(t, 100)

	cases := map[string]string{
		"malformed":     `{invalid-json}`,
		"unknown field": `{"monto": 10000}`,
		"over limit":    `{"principal": 10000, "annual_rate_percent": 5000, "term_years": 20}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := srv.do(http.MethodPost, "/calc/loan", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCalculateLoanHandler_UnsupportedMediaType(t *testing.T) {
	srv := newTestServer(t, 100)

	req := httptest.NewRequest(http.MethodPost, "/calc/loan", strings.NewReader(`principal=1000`))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCalculateIRRHandler(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodPost, "/calc/irr", `{"initial_investment": 100000, "cash_flows": [20000, 25000, 30000, 35000, 40000]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.IRRResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, finance.StatusOK, result.Status)
	assert.Equal(t, 13.4531, result.RatePercent)

	w = srv.do(http.MethodPost, "/calc/irr", `{"initial_investment": 1000, "cash_flows": [0, 0]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"no_cash_flows"`)
}

func TestCalculateROIHandler(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodPost, "/calc/roi", `{"property_price": 10000, "monthly_rent": 10000, "lock_in_years": 20, "tenure_years": 20}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.ROIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 23900.0, result.ROI)
}

func TestCompareTermsHandler(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodPost, "/calc/loan/compare-terms", `{
		"principal": 200000,
		"annual_rate_percent": 6,
		"min_term_years": 10,
		"max_term_years": 30,
		"max_monthly_payment": 1500,
		"preference": "minimize_interest"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.TermComparisonResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 19, result.RecommendedTermYears)

	w = srv.do(http.MethodPost, "/calc/loan/compare-terms", `{
		"principal": 200000,
		"annual_rate_percent": 6,
		"min_term_years": 10,
		"max_term_years": 30,
		"max_monthly_payment": 100
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler(t *testing.T) {
	srv := newTestServer(t, 100)

	srv.do(http.MethodPost, "/calc/roi", `{"property_price": 1000, "monthly_rent": 10, "tenure_years": 1}`)
	srv.do(http.MethodPost, "/calc/irr", `{"initial_investment": 1000, "cash_flows": [1100]}`)
	srv.do(http.MethodPost, "/calc/roi", `{"property_price": 2000, "monthly_rent": 10, "tenure_years": 1}`)

	w := srv.do(http.MethodGet, "/calculations?kind=roi&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var calcs []domain.Calculation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calcs))
	require.Len(t, calcs, 1)
	assert.Equal(t, domain.KindROI, calcs[0].Kind)
	assert.JSONEq(t, `{"property_price":2000,"monthly_rent":10,"lock_in_years":0,"tenure_years":1}`, string(calcs[0].Input))

	w = srv.do(http.MethodGet, "/calculations", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calcs))
	assert.Len(t, calcs, 3)

	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/calculations?kind=stocks", "").Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/calculations?limit=0", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, srv.do(http.MethodDelete, "/calculations", "").Code)
}

func TestHistoryHandler_Empty(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodGet, "/calculations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, 100)

	w := srv.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"memory","cache":"none"}`, w.Body.String())

	srv.do(http.MethodPost, "/calc/loan", `{"principal": 10000, "annual_rate_percent": 9.85, "term_years": 20}`)
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.requests.WithLabelValues("/calc/loan", http.MethodPost, "200")))

	w = srv.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "realty_calc_calculations_total")
	assert.Contains(t, w.Body.String(), "realty_calc_http_requests_total")
}

func TestRouter_RateLimited(t *testing.T) {
	srv := newTestServer(t, 2)

	body := `{"property_price": 1000, "monthly_rent": 10, "tenure_years": 1}`
	assert.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/calc/roi", body).Code)
	assert.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/calc/roi", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, srv.do(http.MethodPost, "/calc/roi", body).Code)

	// health is never limited
	assert.Equal(t, http.StatusOK, srv.do(http.MethodGet, "/health", "").Code)
}
