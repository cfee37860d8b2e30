package journalist

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/samgozman/fin-pulse/pkg/errlvl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProvider struct {
	name   string
	titles []string
	err    error
}

func (p *staticProvider) ProviderName() string { return p.name }

func (p *staticProvider) Fetch(context.Context) (HeadlineList, error) {
	if p.err != nil {
		return nil, p.err
	}
	list := make(HeadlineList, len(p.titles))
	for i, t := range p.titles {
		list[i] = &HeadlineAlert{Title: t, SourceFeed: p.name}
	}
	return list, nil
}

type panicProvider struct{}

func (panicProvider) ProviderName() string { return "panic" }

func (panicProvider) Fetch(context.Context) (HeadlineList, error) { panic("feed parser bug") }

func TestJournalist_GetHeadlines(t *testing.T) {
	keywords := []string{"iran", "missile"}
	tests := []struct {
		name         string
		providers    []NewsProvider
		perFeedLimit int
		limit        int
		want         []string
		wantErr      error
	}{
		{
			name: "matching titles only",
			providers: []NewsProvider{
				&staticProvider{name: "a", titles: []string{"Iran missile test", "Weather update"}},
			},
			perFeedLimit: 10,
			limit:        20,
			want:         []string{"Iran missile test"},
		},
		{
			name: "feeds concatenated in listed order without dedup",
			providers: []NewsProvider{
				&staticProvider{name: "a", titles: []string{"Iran talks", "Sports"}},
				&staticProvider{name: "b", titles: []string{"Missile launch", "Iran talks"}},
			},
			perFeedLimit: 10,
			limit:        20,
			want:         []string{"Iran talks", "Missile launch", "Iran talks"},
		},
		{
			name: "only first entries of each feed are scanned",
			providers: []NewsProvider{
				&staticProvider{name: "a", titles: []string{"Sports", "Weather", "Iran talks"}},
			},
			perFeedLimit: 2,
			limit:        20,
			want:         []string{},
		},
		{
			name: "total cap",
			providers: []NewsProvider{
				&staticProvider{name: "a", titles: []string{"Iran 1", "Iran 2", "Iran 3"}},
				&staticProvider{name: "b", titles: []string{"Iran 4"}},
			},
			perFeedLimit: 10,
			limit:        2,
			want:         []string{"Iran 1", "Iran 2"},
		},
		{
			name: "failed feed yields zero entries",
			providers: []NewsProvider{
				&staticProvider{name: "a", err: errors.New("connection refused")},
				&staticProvider{name: "b", titles: []string{"Missile defence"}},
			},
			perFeedLimit: 10,
			limit:        20,
			want:         []string{"Missile defence"},
			wantErr:      errlvl.ErrWarn,
		},
		{
			name: "all feeds failed",
			providers: []NewsProvider{
				&staticProvider{name: "a", err: errors.New("timeout")},
			},
			perFeedLimit: 10,
			limit:        20,
			want:         []string{},
			wantErr:      errNoProvidersAnswered,
		},
		{
			name:         "panicking provider",
			providers:    []NewsProvider{panicProvider{}},
			perFeedLimit: 10,
			limit:        20,
			want:         []string{},
			wantErr:      errPanicGetHeadlines,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewJournalist("test", tt.providers).
				FilterByKeys(keywords).
				ScanFirst(tt.perFeedLimit).
				Limit(tt.limit)

			got, err := j.GetHeadlines(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got.Titles())
			assert.LessOrEqual(t, len(got), tt.limit)
		})
	}
}

func TestJournalist_GetHeadlines_rss(t *testing.T) {
	good := feedServer(t, rssFeed("Iran missile test", "Weather update"), http.StatusOK)
	broken := feedServer(t, "not xml at all", http.StatusOK)

	j := NewJournalist("geo", []NewsProvider{
		NewRssProvider("broken", broken.URL),
		NewRssProvider("good", good.URL),
	}).FilterByKeys([]string{"iran", "missile"}).ScanFirst(10).Limit(20)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := j.GetHeadlines(ctx)
	assert.Error(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Iran missile test", got[0].Title)
	assert.Equal(t, "good", got[0].SourceFeed)
}

func TestJournalist_GetHeadlines_rssScanWindowCountsBlankEntries(t *testing.T) {
	srv := feedServer(t, rssFeed("", "", "Iran missile test"), http.StatusOK)

	tests := []struct {
		name         string
		perFeedLimit int
		want         []string
	}{
		{name: "match outside the window", perFeedLimit: 2, want: []string{}},
		{name: "match inside the window", perFeedLimit: 3, want: []string{"Iran missile test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewJournalist("geo", []NewsProvider{NewRssProvider("feed", srv.URL)}).
				FilterByKeys([]string{"iran"}).
				ScanFirst(tt.perFeedLimit).
				Limit(20)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			got, err := j.GetHeadlines(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Titles())
		})
	}
}

func TestJournalist_GetHeadlines_withoutKeywords(t *testing.T) {
	j := NewJournalist("geo", []NewsProvider{
		&staticProvider{name: "a", titles: []string{"Weather update", "Football"}},
	})

	got, err := j.GetHeadlines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
