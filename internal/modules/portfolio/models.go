package portfolio

import (
	"time"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// OpenPosition is a holding with remaining shares, valued in both the
// stock's local currency and the base currency.
type OpenPosition struct {
	StockID          int64           `json:"stock_id"`
	Ticker           string          `json:"ticker"`
	Exchange         string          `json:"exchange"`
	Name             string          `json:"name"`
	Currency         domain.Currency `json:"currency"`
	Quantity         float64         `json:"quantity"`
	AvgCostLocal     float64         `json:"avg_cost_local"`
	AvgCostBase      float64         `json:"avg_cost_base"`
	CostLocal        float64         `json:"cost_local"`
	CostBase         float64         `json:"cost_base"`
	PriceLocal       *float64        `json:"price_local,omitempty"` // nil when no live quote resolved
	PriceBase        *float64        `json:"price_base,omitempty"`
	MarketValueLocal float64         `json:"market_value_local"`
	MarketValueBase  float64         `json:"market_value_base"`
	UnrealizedGain   float64         `json:"unrealized_gain"` // base currency
	GainPct          *float64        `json:"gain_pct,omitempty"`
}

// ClosedPosition is a fully disposed holding with only realized P&L left
type ClosedPosition struct {
	StockID       int64           `json:"stock_id"`
	Ticker        string          `json:"ticker"`
	Exchange      string          `json:"exchange"`
	Name          string          `json:"name"`
	Currency      domain.Currency `json:"currency"`
	CostLocal     float64         `json:"cost_local"`
	CostBase      float64         `json:"cost_base"`
	ProceedsLocal float64         `json:"proceeds_local"`
	ProceedsBase  float64         `json:"proceeds_base"`
	RealizedGain  float64         `json:"realized_gain"` // base currency
	GainPct       *float64        `json:"gain_pct,omitempty"`
}

// Totals holds portfolio-level sums in the base currency. The percentage
// fields are nil when the corresponding cost is zero.
type Totals struct {
	OpenCost        float64  `json:"open_cost"`
	OpenMarketValue float64  `json:"open_market_value"`
	UnrealizedGain  float64  `json:"unrealized_gain"`
	UnrealizedPct   *float64 `json:"unrealized_pct,omitempty"`
	ClosedCost      float64  `json:"closed_cost"`
	ClosedProceeds  float64  `json:"closed_proceeds"`
	RealizedGain    float64  `json:"realized_gain"`
	RealizedPct     *float64 `json:"realized_pct,omitempty"`
}

// Anomaly flags a stock whose ledger can't be classified (over-sold or
// short). Anomalies are excluded from both output lists; callers log them.
type Anomaly struct {
	StockID int64   `json:"stock_id"`
	Ticker  string  `json:"ticker"`
	NetQty  float64 `json:"net_qty"`
}

// Valuation is the complete result of one batch evaluation
type Valuation struct {
	Open            []OpenPosition   `json:"open"`
	Closed          []ClosedPosition `json:"closed"`
	Totals          Totals           `json:"totals"`
	LastPriceUpdate *time.Time       `json:"last_price_update,omitempty"`
	Anomalies       []Anomaly        `json:"anomalies,omitempty"`
}
