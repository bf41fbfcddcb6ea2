package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"realty-calc/domain"
	"realty-calc/finance"
	"realty-calc/repository"
)

// Option configures the shared parts of a calculator service.
type Option func(*calculator)

// WithMetrics records every run in m.
func WithMetrics(m *Metrics) Option {
	return func(c *calculator) { c.metrics = m }
}

// WithAdvisor enables explanations for requests that ask for one.
func WithAdvisor(a *AdvisorService) Option {
	return func(c *calculator) { c.advisor = a }
}

// WithClock overrides the time source used for history records.
func WithClock(now func() time.Time) Option {
	return func(c *calculator) { c.now = now }
}

// calculator is the plumbing every service shares: result cache, history
// repository, metrics and the optional advisor. Repo and cache may be nil.
type calculator struct {
	repo    repository.CalculationRepository
	cache   repository.CacheRepository
	metrics *Metrics
	advisor *AdvisorService
	now     func() time.Time
}

func newCalculator(repo repository.CalculationRepository, cache repository.CacheRepository, opts []Option) calculator {
	c := calculator{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// lookup fills out from the cache. It returns the key to store under later;
// an empty key means caching is off for this call.
func (c *calculator) lookup(ctx context.Context, kind domain.CalculationKind, input, out any) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	key, err := repository.CacheKey(string(kind), input)
	if err != nil {
		logrus.WithError(err).WithField("kind", kind).Warn("cache key failed")
		return "", false
	}

	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return key, false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("discarding unreadable cache entry")
		return key, false
	}
	c.metrics.cacheHit(string(kind))
	return key, true
}

func (c *calculator) remember(ctx context.Context, key string, result any) {
	if c.cache == nil || key == "" {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := c.cache.Set(ctx, key, string(raw)); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// record stores a history entry. Failing to save is not fatal.
func (c *calculator) record(ctx context.Context, kind domain.CalculationKind, input, output any, status finance.Status) {
	if c.repo == nil {
		return
	}
	in, err := json.Marshal(input)
	if err != nil {
		logrus.WithError(err).Warn("failed to encode calculation input")
		return
	}
	out, err := json.Marshal(output)
	if err != nil {
		logrus.WithError(err).Warn("failed to encode calculation output")
		return
	}

	calc := domain.Calculation{
		ID:        uuid.NewString(),
		Kind:      kind,
		Input:     in,
		Output:    out,
		Status:    status,
		CreatedAt: c.now().UTC(),
	}
	if err := c.repo.Save(ctx, calc); err != nil {
		logrus.WithError(err).WithField("kind", kind).Warn("failed to save calculation")
	}
}

func (c *calculator) observe(kind domain.CalculationKind, status finance.Status, started time.Time) {
	c.metrics.observe(string(kind), status, time.Since(started).Seconds())
	if !status.OK() {
		logrus.WithFields(logrus.Fields{
			"kind":   kind,
			"status": status,
		}).Debug("calculation produced a neutral result")
	}
}

// sanitize maps values a form should never send (NaN, infinities, negatives)
// to zero before they reach the calculators.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sanitizeSigned is sanitize for fields that may legitimately be negative.
func sanitizeSigned(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func roundTo(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// roundTo2Decimals rounds a money amount to cents.
func roundTo2Decimals(value float64) float64 {
	return roundTo(value, 2)
}
