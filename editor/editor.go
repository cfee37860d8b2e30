package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/samgozman/fin-pulse/composer"
	"github.com/samgozman/fin-pulse/journalist"
	"github.com/samgozman/fin-pulse/scavenger/quotes"
	"golang.org/x/sync/errgroup"
)

// QuoteFetcher returns one quote per configured metric, never failing.
type QuoteFetcher interface {
	FetchAll(ctx context.Context) []quotes.Quote
}

// HeadlineFetcher returns matching headlines. The list is usable even when err != nil.
type HeadlineFetcher interface {
	GetHeadlines(ctx context.Context) (journalist.HeadlineList, error)
}

// Edition is one prepared briefing together with the data it was built from.
type Edition struct {
	Briefing composer.Briefing
	Quotes   []quotes.Quote
	Alerts   journalist.HeadlineList
}

// HasAlerts reports whether any headline matched.
func (e *Edition) HasAlerts() bool {
	return len(e.Alerts) > 0
}

// Editor gathers quotes and headlines and composes a briefing out of them.
// Editor keeps no state between calls and is safe for concurrent use.
type Editor struct {
	quotes     QuoteFetcher
	headlines  HeadlineFetcher
	composer   *composer.Composer
	forecaster composer.Forecaster // optional
	budget     time.Duration       // time budget of the fetch stage
	outlook    time.Duration       // time budget of the forecaster, separate from the fetch stage
	logger     *slog.Logger
}

// DefaultOutlookTimeout bounds a single forecaster call. Model completions are much slower than feeds.
const DefaultOutlookTimeout = 40 * time.Second

// NewEditor creates a new Editor. budget bounds the fetch stage so a stuck feed
// can not hold the briefing back.
func NewEditor(q QuoteFetcher, h HeadlineFetcher, c *composer.Composer, budget time.Duration) *Editor {
	return &Editor{
		quotes:    q,
		headlines: h,
		composer:  c,
		budget:    budget,
		outlook:   DefaultOutlookTimeout,
		logger:    slog.Default(),
	}
}

// WithForecaster enables the outlook section.
func (e *Editor) WithForecaster(f composer.Forecaster) *Editor {
	e.forecaster = f
	return e
}

// OutlookTimeout sets the time budget of the forecaster.
func (e *Editor) OutlookTimeout(d time.Duration) *Editor {
	e.outlook = d
	return e
}

// WithLogger sets the logger.
func (e *Editor) WithLogger(l *slog.Logger) *Editor {
	e.logger = l
	return e
}

// Prepare fetches quotes and headlines concurrently and composes the briefing dated asOf.
// Data source failures only degrade the content: the returned Edition is always complete.
func (e *Editor) Prepare(ctx context.Context, asOf time.Time) *Edition {
	fetchCtx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	var (
		q      []quotes.Quote
		alerts journalist.HeadlineList
	)

	var g errgroup.Group
	g.Go(func() error {
		q = e.quotes.FetchAll(fetchCtx)
		return nil
	})
	g.Go(func() error {
		var err error
		alerts, err = e.headlines.GetHeadlines(fetchCtx)
		if err != nil {
			e.logger.Warn("[editor][GetHeadlines]", "error", err, "headlines", len(alerts))
		}
		return nil
	})
	_ = g.Wait()

	outlook := ""
	if e.forecaster != nil {
		oCtx, oCancel := context.WithTimeout(ctx, e.outlook)
		o, err := e.forecaster.Outlook(oCtx, q, alerts)
		oCancel()
		if err != nil {
			e.logger.Warn("[editor][Outlook]", "error", err)
		}
		outlook = o
	}

	b := e.composer.ComposeWithOutlook(q, alerts, outlook, asOf)
	if b.ExceedsLimit() {
		e.logger.Warn("[editor][Prepare] briefing exceeds the Telegram message limit", "runes", len([]rune(b.Text)))
	}

	return &Edition{
		Briefing: b,
		Quotes:   q,
		Alerts:   alerts,
	}
}
