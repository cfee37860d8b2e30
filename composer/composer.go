package composer

import (
	"fmt"
	"strings"
	"time"

	"github.com/samgozman/fin-pulse/journalist"
	"github.com/samgozman/fin-pulse/scavenger/quotes"
)

// Composer renders quotes and headlines into a Markdown briefing.
type Composer struct {
	Config *Config
}

func NewComposer() *Composer {
	return &Composer{Config: DefaultConfig()}
}

// Compose builds the briefing for asOf. It has no side effects: same inputs give the same text.
func (c *Composer) Compose(q []quotes.Quote, alerts journalist.HeadlineList, asOf time.Time) Briefing {
	return c.ComposeWithOutlook(q, alerts, "", asOf)
}

// ComposeWithOutlook is Compose with an extra outlook section. Empty outlook omits the section.
func (c *Composer) ComposeWithOutlook(q []quotes.Quote, alerts journalist.HeadlineList, outlook string, asOf time.Time) Briefing {
	var b strings.Builder

	fmt.Fprintf(&b, "%s — %s*\n\n", c.Config.Title, formatDate(asOf))

	b.WriteString(c.Config.MarketsLabel + "\n")
	for _, quote := range q {
		fmt.Fprintf(&b, "- %s: *%s*\n", escapeMarkdown(quote.Name), quote.Text())
	}
	b.WriteString("\n")

	b.WriteString(c.Config.EventsLabel + "\n")
	if len(alerts) == 0 {
		fmt.Fprintf(&b, "- %s\n", c.Config.NoEventsText)
	}
	for _, a := range alerts {
		fmt.Fprintf(&b, "- %s\n", escapeMarkdown(a.Title))
	}
	b.WriteString("\n")

	if outlook = strings.TrimSpace(outlook); outlook != "" {
		b.WriteString(c.Config.OutlookLabel + "\n")
		b.WriteString(escapeMarkdown(outlook) + "\n\n")
	}

	b.WriteString(c.Config.Disclaimer)

	return Briefing{Text: b.String(), Format: Markdown}
}

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// formatDate formats the date as "2 июля 2025".
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthsGenitive[t.Month()-1], t.Year())
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown escapes Telegram legacy Markdown entities in feed-provided text.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
