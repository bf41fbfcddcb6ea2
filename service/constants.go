package service

const (
	MaxAmount              = 1_000_000_000_000.0 // one trillion, any currency
	MaxInterestRatePercent = 1000.0              // 1000% per year
	MaxTermYears           = 50
	MaxCashFlowPeriods     = 600
	MaxSchedulePoints      = 50

	// Term comparison
	MaxTermRangeYears = 40
)

const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)
