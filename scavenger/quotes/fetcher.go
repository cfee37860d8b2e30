package quotes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/samber/lo"
	"github.com/samgozman/fin-pulse/pkg/errlvl"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// FetchPolicy bounds every quote request. Retries is 0 by default: a failed source is reported
// as unavailable in the briefing instead of delaying it.
type FetchPolicy struct {
	Timeout time.Duration // per-request timeout
	Retries uint          // extra attempts after the first one
}

// DefaultFetchPolicy is a single attempt with a 10 second timeout.
func DefaultFetchPolicy() FetchPolicy {
	return FetchPolicy{Timeout: 10 * time.Second}
}

// Fetcher fetches quotes for a fixed, ordered set of metrics.
type Fetcher struct {
	specs  []Spec
	client *http.Client
	policy FetchPolicy
	logger *slog.Logger
}

// NewFetcher creates a Fetcher for the given specs. Specs order is the briefing order.
func NewFetcher(policy FetchPolicy, specs ...Spec) *Fetcher {
	return &Fetcher{
		specs:  specs,
		client: &http.Client{Timeout: policy.Timeout},
		policy: policy,
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for degraded quotes.
func (f *Fetcher) WithLogger(l *slog.Logger) *Fetcher {
	f.logger = l
	return f
}

// Metrics returns configured metrics in briefing order.
func (f *Fetcher) Metrics() []Metric {
	return lo.Map(f.specs, func(s Spec, _ int) Metric { return s.Metric })
}

// Fetch fetches one metric. Any failure is returned as *Error and no quote is produced.
func (f *Fetcher) Fetch(ctx context.Context, m Metric) (Quote, error) {
	spec, ok := lo.Find(f.specs, func(s Spec) bool { return s.Metric == m })
	if !ok {
		return Quote{}, newError(errlvl.ERROR, errUnknownMetric).WithMetric(m)
	}

	ctx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
	defer cancel()

	var value decimal.Decimal
	err := retry.Do(
		func() error {
			v, err := spec.Source.Fetch(ctx, f.client)
			if err != nil {
				return err
			}
			value = v
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.policy.Retries+1),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return Quote{}, newError(errlvl.WARN, err).WithMetric(m)
	}

	return spec.quote(value), nil
}

// FetchOrUnavailable fetches one metric and substitutes the unavailable sentinel on any failure.
// This is the only place where quote errors are swallowed.
func (f *Fetcher) FetchOrUnavailable(ctx context.Context, m Metric) (q Quote) {
	fallback := Quote{Metric: m, Name: string(m)}
	if spec, ok := lo.Find(f.specs, func(s Spec) bool { return s.Metric == m }); ok {
		fallback = spec.Unavailable()
	}

	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("[quotes][FetchOrUnavailable]", "metric", m, "error", newError(errlvl.ERROR, errPanicFetchSoft, fmt.Errorf("%v", r)))
			q = fallback
		}
	}()

	q, err := f.Fetch(ctx, m)
	if err != nil {
		f.logger.Warn("[quotes][FetchOrUnavailable]", "metric", m, "error", err)
		return fallback
	}

	return q
}

// FetchAll fetches every configured metric concurrently. The result always has one entry per metric,
// in configuration order.
func (f *Fetcher) FetchAll(ctx context.Context) []Quote {
	result := make([]Quote, len(f.specs))

	var g errgroup.Group
	for i, s := range f.specs {
		i, m := i, s.Metric
		g.Go(func() error {
			result[i] = f.FetchOrUnavailable(ctx, m)
			return nil
		})
	}
	_ = g.Wait()

	return result
}
