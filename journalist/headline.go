package journalist

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"github.com/samgozman/fin-pulse/internal/utils"
)

// HeadlineAlert is a feed entry whose title matched the keyword filter.
type HeadlineAlert struct {
	Title      string // Title is the sanitized entry title
	SourceFeed string // SourceFeed is the name of the provider that fetched the entry
}

// HeadlineList is a list of headlines in feed order.
type HeadlineList []*HeadlineAlert

// FilterByKeywords keeps headlines whose title contains any of the keywords, case-insensitive.
// Blank keywords are ignored, so an empty keywords list keeps nothing.
func (h HeadlineList) FilterByKeywords(keywords []string) HeadlineList {
	lowered := lo.FilterMap(keywords, func(k string, _ int) (string, bool) {
		k = strings.ToLower(strings.TrimSpace(k))
		return k, k != ""
	})
	return lo.Filter(h, func(a *HeadlineAlert, _ int) bool {
		title := strings.ToLower(a.Title)
		return lo.SomeBy(lowered, func(k string) bool { return strings.Contains(title, k) })
	})
}

// First returns at most n first headlines. Non-positive n means no limit.
func (h HeadlineList) First(n int) HeadlineList {
	if n <= 0 || len(h) <= n {
		return h
	}
	return h[:n]
}

// Titles returns headline titles in order.
func (h HeadlineList) Titles() []string {
	return lo.Map(h, func(a *HeadlineAlert, _ int) string { return a.Title })
}

var titlePolicy = bluemonday.StrictPolicy()

// sanitizeTitle removes HTML tags and escaped unicode sequences from the feed title.
func sanitizeTitle(s string) string {
	s = utils.ReplaceUnicodeSymbols(s)
	s = titlePolicy.Sanitize(s)
	// StrictPolicy escapes entities, titles are sent as plain text
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
