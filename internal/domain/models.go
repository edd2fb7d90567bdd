package domain

import (
	"strings"
	"time"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyGBX Currency = "GBX" // pence, 1/100 of GBP
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// MinorUnitFactor is the scale between a minor-unit currency and its major unit
const MinorUnitFactor = 100.0

// minorUnitAliases maps minor-unit currency codes to their major-unit currency.
// Quote providers report LSE prices in pence ("GBX" or "GBp").
var minorUnitAliases = map[Currency]Currency{
	CurrencyGBX: CurrencyGBP,
}

// NormalizeCurrency canonicalizes a provider currency code.
// "GBp" and "gbx" both normalize to GBX.
func NormalizeCurrency(code string) Currency {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "GBP" {
		return CurrencyGBP
	}
	if c == "GBX" {
		return CurrencyGBX
	}
	return Currency(c)
}

// MajorUnit returns the major-unit currency and true when c is a
// minor-unit alias (e.g. GBX -> GBP). Otherwise returns c and false.
func (c Currency) MajorUnit() (Currency, bool) {
	if major, ok := minorUnitAliases[c]; ok {
		return major, true
	}
	return c, false
}

// IsMinorUnitOf reports whether c is the minor-unit alias of base.
func (c Currency) IsMinorUnitOf(base Currency) bool {
	major, ok := c.MajorUnit()
	return ok && major == base
}

// Stock represents a tradable instrument
type Stock struct {
	ID       int64    `json:"id"`
	Ticker   string   `json:"ticker"`
	Exchange string   `json:"exchange"`
	Name     string   `json:"name"`
	Currency Currency `json:"currency"`
}

// TradeSide represents the direction of a trade
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Trade represents a single ledger entry for a stock.
//
// Two quantity encodings appear in broker exports: an explicit side tag with
// an unsigned quantity, or an empty side with a signed quantity (positive =
// buy, negative = sell). Both are accepted; the aggregator normalizes them.
type Trade struct {
	ID            int64      `json:"id"`
	StockID       int64      `json:"stock_id"`
	Side          TradeSide  `json:"side,omitempty"`
	TradeDate     string     `json:"trade_date"` // YYYY-MM-DD
	Quantity      float64    `json:"quantity"`
	PricePerShare *float64   `json:"price_per_share,omitempty"` // local currency
	PriceCurrency Currency   `json:"price_currency,omitempty"`
	BaseValue     *float64   `json:"base_value,omitempty"` // base currency at trade time
	FXRate        *float64   `json:"fx_rate,omitempty"`
	Fee           *float64   `json:"fee,omitempty"`
	FeeCurrency   Currency   `json:"fee_currency,omitempty"`
	LocalValue    *float64   `json:"local_value,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// QuoteRecord represents a cached market quote for a provider symbol.
// Price is in the provider's quote currency; normalization into the base
// currency happens at valuation time.
type QuoteRecord struct {
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Currency    Currency  `json:"currency"`
	LastUpdated time.Time `json:"last_updated"`
}
