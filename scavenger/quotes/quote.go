package quotes

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnavailableText is rendered in place of a quote whose source failed.
const UnavailableText = "н/д"

// Metric identifies one of the fixed set of tracked values.
type Metric string

const (
	USDPLN Metric = "usd_pln" // USD/PLN exchange rate
	Brent  Metric = "brent"   // Brent crude futures
	Gold   Metric = "gold"    // Gold futures
	Silver Metric = "silver"  // Silver futures
)

// Quote is one fetched value, already rounded to its precision.
// A Quote is either Available with a Value, or the unavailable sentinel.
type Quote struct {
	Metric    Metric
	Name      string          // Name is the label shown in the briefing (e.g. "USD/PLN")
	Unit      string          // Unit is "USD" for dollar prices or a currency code for rates
	Precision int32           // Precision is the number of decimal places
	Value     decimal.Decimal // Value is zero for unavailable quotes
	Available bool
}

// Text renders the quote for a message: "3,6000 PLN", "$69,40" or UnavailableText.
func (q Quote) Text() string {
	if !q.Available {
		return UnavailableText
	}

	v := strings.Replace(q.Value.StringFixed(q.Precision), ".", ",", 1)
	switch q.Unit {
	case "USD":
		return "$" + v
	case "":
		return v
	default:
		return v + " " + q.Unit
	}
}

// Spec describes how to fetch and present a metric.
type Spec struct {
	Metric    Metric
	Name      string
	Unit      string
	Precision int32
	Source    Source
}

// Unavailable returns the sentinel quote for the spec.
func (s Spec) Unavailable() Quote {
	return Quote{
		Metric:    s.Metric,
		Name:      s.Name,
		Unit:      s.Unit,
		Precision: s.Precision,
	}
}

func (s Spec) quote(v decimal.Decimal) Quote {
	q := s.Unavailable()
	q.Value = v.Round(s.Precision)
	q.Available = true
	return q
}

// DefaultSpecs returns the tracked metrics: USD/PLN from NBP, Brent, gold and silver futures from Yahoo.
func DefaultSpecs() []Spec {
	return []Spec{
		{Metric: USDPLN, Name: "USD/PLN", Unit: "PLN", Precision: 4, Source: &NBPSource{URL: NBPRateURL}},
		{Metric: Brent, Name: "Нефть (Brent)", Unit: "USD", Precision: 2, Source: &YahooSource{BaseURL: YahooChartURL, Symbol: "BZ=F"}},
		{Metric: Gold, Name: "Золото", Unit: "USD", Precision: 2, Source: &YahooSource{BaseURL: YahooChartURL, Symbol: "GC=F"}},
		{Metric: Silver, Name: "Серебро", Unit: "USD", Precision: 2, Source: &YahooSource{BaseURL: YahooChartURL, Symbol: "SI=F"}},
	}
}
