package journalist

import (
	"context"
	"errors"
	"fmt"

	"github.com/samgozman/fin-pulse/pkg/errlvl"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPerFeedLimit = 10 // DefaultPerFeedLimit is how many newest entries of each feed are scanned
	DefaultTotalLimit   = 20 // DefaultTotalLimit caps the resulting headline list
)

// Journalist fetches headlines from a group of providers and filters them by keywords.
type Journalist struct {
	Name         string
	providers    []NewsProvider
	filterKeys   []string // headlines are kept only if the title contains any of these keys
	perFeedLimit int
	limit        int
}

// NewJournalist creates a new Journalist instance with default limits.
func NewJournalist(name string, providers []NewsProvider) *Journalist {
	return &Journalist{
		Name:         name,
		providers:    providers,
		perFeedLimit: DefaultPerFeedLimit,
		limit:        DefaultTotalLimit,
	}
}

// FilterByKeys sets the keywords used to select headlines.
func (j *Journalist) FilterByKeys(keys []string) *Journalist {
	j.filterKeys = keys
	return j
}

// ScanFirst sets how many first entries of every feed are checked against the keywords.
func (j *Journalist) ScanFirst(perFeedLimit int) *Journalist {
	j.perFeedLimit = perFeedLimit
	return j
}

// Limit sets the maximum number of headlines returned.
func (j *Journalist) Limit(total int) *Journalist {
	j.limit = total
	return j
}

// GetHeadlines fetches all providers concurrently and returns the matching headlines
// concatenated in provider order and truncated to the limit.
//
// A provider that fails contributes no headlines. Its error is returned together with
// the headlines of the other providers, so the result is usable even when err != nil.
func (j *Journalist) GetHeadlines(ctx context.Context) (HeadlineList, error) {
	perFeed := make([]HeadlineList, len(j.providers))
	errs := make([]error, len(j.providers))

	var g errgroup.Group
	for i, p := range j.providers {
		i, p := i, p
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = newError(errlvl.ERROR, errPanicGetHeadlines, fmt.Errorf("%v", r)).WithProvider(p.ProviderName())
				}
			}()

			news, err := p.Fetch(ctx)
			if err != nil {
				errs[i] = err
				return nil
			}
			perFeed[i] = news.First(j.perFeedLimit).FilterByKeywords(j.filterKeys)
			return nil
		})
	}
	_ = g.Wait()

	var headlines HeadlineList
	for _, n := range perFeed {
		headlines = append(headlines, n...)
	}
	headlines = headlines.First(j.limit)

	if e := errors.Join(errs...); e != nil {
		if countNil(errs) == 0 {
			// provider errors are leveled WARN already, so the ERROR level is set on the summary
			return headlines, newError(errlvl.ERROR, errlvl.Wrap(errNoProvidersAnswered, errlvl.ERROR), e)
		}
		return headlines, newError(errlvl.WARN, e)
	}

	return headlines, nil
}

func countNil(errs []error) int {
	n := 0
	for _, e := range errs {
		if e == nil {
			n++
		}
	}
	return n
}
