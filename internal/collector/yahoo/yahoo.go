package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"time"

	"github.com/wqkoh/reitwatch/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches SGX-style symbols like C38U.SI, A17U.SI, ME8U.SI
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo fetches daily close history from the Yahoo Finance chart API.
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// New creates a new Yahoo price provider
func New() *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultBaseURL,
	}
}

// NewWithBaseURL creates a provider against a custom endpoint, used in tests.
func NewWithBaseURL(baseURL string) *Yahoo {
	y := New()
	y.baseURL = baseURL
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// FetchDailyCloses fetches the trailing daily close series for a symbol.
// Bars with missing closes are skipped; the result is date-ascending
// with unique dates, as the indicator engine requires.
func (y *Yahoo) FetchDailyCloses(ctx context.Context, symbol string, lookbackDays int) (core.PriceSeries, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}
	if lookbackDays < 1 {
		return nil, fmt.Errorf("lookback must be positive, got %d", lookbackDays)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)
	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, symbol, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}

	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no data for symbol %s", symbol))
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no quote data for symbol %s", symbol))
	}
	quotes := r.Indicators.Quote[0]

	series := make(core.PriceSeries, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue // Skip missing data
		}
		series = append(series, core.PriceObservation{
			Date:  time.Unix(int64(ts), 0).UTC().Truncate(24 * time.Hour),
			Close: *quotes.Close[i],
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	series = dedupe(series)

	if len(series) == 0 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("no usable bars for symbol %s", symbol))
	}
	return series, nil
}

// dedupe keeps the last observation per calendar date.
func dedupe(series core.PriceSeries) core.PriceSeries {
	out := series[:0]
	for _, obs := range series {
		if len(out) > 0 && out[len(out)-1].Date.Equal(obs.Date) {
			out[len(out)-1] = obs
			continue
		}
		out = append(out, obs)
	}
	return out
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Close []*float64 `json:"close"`
}
