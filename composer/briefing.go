package composer

import "unicode/utf8"

// TelegramMessageLimit is the maximum message length accepted by the Bot API, in runes.
const TelegramMessageLimit = 4096

// Format is the markup of a message text.
type Format string

const (
	PlainText Format = ""
	Markdown  Format = "Markdown"
	HTML      Format = "HTML"
)

// Briefing is a composed message ready to be sent.
type Briefing struct {
	Text   string
	Format Format
}

// ExceedsLimit reports whether the text is longer than Telegram accepts.
// The text is never truncated, the transport will reject it.
func (b Briefing) ExceedsLimit() bool {
	return utf8.RuneCountInString(b.Text) > TelegramMessageLimit
}
