package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/samgozman/fin-pulse/pkg/errlvl"
	"github.com/shopspring/decimal"
)

const (
	// NBPRateURL is the National Bank of Poland table A rate for USD.
	NBPRateURL = "https://api.nbp.pl/api/exchangerates/rates/a/usd/?format=json"
	// YahooChartURL is the base of the Yahoo Finance chart API.
	YahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// Source extracts a single numeric field from a public endpoint with one GET request.
type Source interface {
	Fetch(ctx context.Context, client *http.Client) (decimal.Decimal, error)
}

// NBPSource reads the mid rate from the NBP exchange rates API.
type NBPSource struct {
	URL string
}

type nbpResponse struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string              `json:"no"`
		EffectiveDate string              `json:"effectiveDate"`
		Mid           decimal.NullDecimal `json:"mid"`
	} `json:"rates"`
}

func (s *NBPSource) Fetch(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
	var resp nbpResponse
	if err := getJSON(ctx, client, s.URL, &resp); err != nil {
		return decimal.Zero, err
	}

	if len(resp.Rates) == 0 {
		return decimal.Zero, newError(errlvl.WARN, errEmptyResult)
	}

	// NBP returns the most recent table last
	return validValue(resp.Rates[len(resp.Rates)-1].Mid)
}

// YahooSource reads the regular market price of a symbol from the Yahoo Finance chart API.
type YahooSource struct {
	BaseURL string
	Symbol  string // e.g. BZ=F for Brent futures
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string              `json:"currency"`
				Symbol             string              `json:"symbol"`
				RegularMarketPrice decimal.NullDecimal `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

func (s *YahooSource) Fetch(ctx context.Context, client *http.Client) (decimal.Decimal, error) {
	var resp yahooChartResponse
	if err := getJSON(ctx, client, s.BaseURL+url.PathEscape(s.Symbol), &resp); err != nil {
		return decimal.Zero, err
	}

	if len(resp.Chart.Result) == 0 {
		return decimal.Zero, newError(errlvl.WARN, errEmptyResult)
	}

	return validValue(resp.Chart.Result[0].Meta.RegularMarketPrice)
}

func validValue(v decimal.NullDecimal) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, newError(errlvl.WARN, errMissingField)
	}
	if !v.Decimal.IsPositive() {
		return decimal.Zero, newError(errlvl.WARN, errNonPositive, fmt.Errorf("value %s", v.Decimal))
	}

	return v.Decimal, nil
}

// getJSON performs a GET request and decodes the JSON body into v.
func getJSON(ctx context.Context, client *http.Client, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return newError(errlvl.ERROR, errRequest, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", userAgent)

	res, err := client.Do(req)
	if err != nil {
		return newError(errlvl.WARN, errRequest, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.StatusCode != http.StatusOK {
		return newError(errlvl.WARN, errStatus, fmt.Errorf("status %d from %s", res.StatusCode, u))
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return newError(errlvl.WARN, errDecode, err)
	}

	return nil
}
