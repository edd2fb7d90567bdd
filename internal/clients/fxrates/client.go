package fxrates

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// Client fetches FX rates from a frankfurter-style provider
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient creates a new FX rates client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(15 * time.Second),
		log: log.With().Str("client", "fxrates").Logger(),
	}
}

// ratesResponse is the provider's latest-rates payload:
// rates are units of each currency per one unit of base.
type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// GetRates fetches units-per-base rates for the given currencies.
// A single attempt is made; callers own the degrade-on-failure policy.
func (c *Client) GetRates(base domain.Currency, symbols []domain.Currency) (map[domain.Currency]float64, error) {
	if len(symbols) == 0 {
		return map[domain.Currency]float64{}, nil
	}

	codes := make([]string, 0, len(symbols))
	for _, s := range symbols {
		codes = append(codes, string(s))
	}

	var result ratesResponse
	resp, err := c.http.R().
		SetQueryParam("base", string(base)).
		SetQueryParam("symbols", strings.Join(codes, ",")).
		SetResult(&result).
		Get("/latest")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch FX rates: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("FX provider returned status %d: %s", resp.StatusCode(), resp.String())
	}

	if len(result.Rates) == 0 {
		return nil, fmt.Errorf("FX provider returned no rates for base %s", base)
	}

	rates := make(map[domain.Currency]float64, len(result.Rates))
	for code, rate := range result.Rates {
		rates[domain.NormalizeCurrency(code)] = rate
	}

	c.log.Debug().
		Str("base", string(base)).
		Int("count", len(rates)).
		Msg("Fetched FX rates")

	return rates, nil
}
