package journalist

import (
	"context"
	"net/http"

	"github.com/mmcdole/gofeed"
	"github.com/samgozman/fin-pulse/pkg/errlvl"
)

// NewsProvider is the interface for the headline fetcher (via RSS, API, etc.)
type NewsProvider interface {
	// Fetch returns feed entries in the feed's native order.
	Fetch(ctx context.Context) (HeadlineList, error)
	// ProviderName is used for logging and as HeadlineAlert.SourceFeed.
	ProviderName() string
}

// RssProvider is the RSS/Atom provider implementation.
type RssProvider struct {
	Name   string // Name is used for logging purposes
	URL    string
	Client *http.Client // Client is optional, gofeed uses its own default client when nil
}

// NewRssProvider creates a new RssProvider instance.
func NewRssProvider(name, url string) *RssProvider {
	return &RssProvider{
		Name: name,
		URL:  url,
	}
}

// ProviderName returns the provider name.
func (r *RssProvider) ProviderName() string {
	return r.Name
}

// Fetch fetches the entries from the RSS feed. Only titles are consumed.
func (r *RssProvider) Fetch(ctx context.Context) (HeadlineList, error) {
	fp := gofeed.NewParser()
	if r.Client != nil {
		fp.Client = r.Client
	}

	feed, err := fp.ParseURLWithContext(r.URL, ctx)
	if err != nil {
		return nil, newError(errlvl.WARN, errFetchingFeed, err).WithProvider(r.Name)
	}

	// one entry per feed item, blank titles included, so the scan window counts feed entries
	news := make(HeadlineList, 0, len(feed.Items))
	for _, item := range feed.Items {
		var title string
		if item != nil {
			title = sanitizeTitle(item.Title)
		}
		news = append(news, &HeadlineAlert{
			Title:      title,
			SourceFeed: r.Name,
		})
	}

	return news, nil
}
