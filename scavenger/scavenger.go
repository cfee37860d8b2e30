package scavenger

import (
	"context"

	"github.com/samgozman/fin-pulse/scavenger/quotes"
)

// Scavenger is the struct that fetches some custom data from defined sources.
// The Scavenger will hold all available sources and will fetch the data from them.
//
// It shouldn't be used as journalist.Journalist to get news. The main purpose of this struct is to
// fetch market data that goes into the briefing next to the headlines.
type Scavenger struct {
	Quotes *quotes.Fetcher
}

// New creates a Scavenger with the default quote specs fetched under policy.
func New(policy quotes.FetchPolicy) *Scavenger {
	return &Scavenger{
		Quotes: quotes.NewFetcher(policy, quotes.DefaultSpecs()...),
	}
}

// FetchAll returns one quote per configured metric, substituting the unavailable value on failure.
func (s *Scavenger) FetchAll(ctx context.Context) []quotes.Quote {
	return s.Quotes.FetchAll(ctx)
}
