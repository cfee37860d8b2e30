package composer

// Config holds the static parts of the briefing template.
type Config struct {
	Title          string // Title is the header text before the date
	MarketsLabel   string
	EventsLabel    string
	NoEventsText   string // NoEventsText replaces the headlines list when nothing matched
	OutlookLabel   string
	Disclaimer     string // Disclaimer is the trailing line of every briefing
	OutlookPrompt  string // OutlookPrompt is the system prompt for the Forecaster
	OutlookMaxSize int    // OutlookMaxSize limits the outlook length in runes
}

func DefaultConfig() *Config {
	return &Config{
		Title:          "📡 *Геополитическая сводка",
		MarketsLabel:   "💱 *Рынки*",
		EventsLabel:    "🌍 *События*",
		NoEventsText:   "Нет текущих событий",
		OutlookLabel:   "🔮 *Прогноз*",
		Disclaimer:     "_Автоматическая сводка от geo_pulse_bot_",
		OutlookMaxSize: 600,
		OutlookPrompt: `Ты финансовый аналитик. Тебе дают текущие котировки и заголовки новостей.
Напиши краткий прогноз на ближайшие дни: 2-3 пункта, каждый с новой строки и начинается с "- ".
Пиши по-русски, без вступления и без заключения, без markdown-разметки кроме дефисов.
Если данных недостаточно, напиши один пункт о том, за чем стоит следить.`,
	}
}
