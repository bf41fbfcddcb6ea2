package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	IRR     *IRRHandler
	Loan    *LoanHandler
	ROI     *ROIHandler
	Terms   *TermComparisonHandler
	History *HistoryHandler
	Health  http.HandlerFunc
}

// NewRouter mounts the API. Calculator and history routes are rate limited;
// health and metrics are not.
func NewRouter(h Handlers, limiter *RateLimiter, metrics *RequestMetrics, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()

	limited := func(route string, handler http.HandlerFunc) {
		mux.Handle(route, metrics.Middleware(route, RateLimitMiddleware(limiter, handler)))
	}

	limited("/calc/irr", h.IRR.CalculateIRR)
	limited("/calc/loan", h.Loan.CalculateLoan)
	limited("/calc/roi", h.ROI.CalculateROI)
	limited("/calc/loan/compare-terms", h.Terms.CompareTerms)
	limited("/calculations", h.History.List)

	mux.Handle("/health", metrics.Middleware("/health", h.Health))
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}
