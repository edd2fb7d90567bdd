package trading

import (
	"math"
	"strings"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// Aggregate accumulates the trade ledger for one stock. Quantities are
// unsigned; net position is BoughtQty - SoldQty.
type Aggregate struct {
	StockID       int64
	BoughtQty     float64
	SoldQty       float64
	CostLocal     float64
	CostBase      float64
	ProceedsLocal float64
	ProceedsBase  float64
}

// NetQty returns the remaining share count
func (a *Aggregate) NetQty() float64 {
	return a.BoughtQty - a.SoldQty
}

// IsEmpty reports whether no flow was ever recorded for this stock
func (a *Aggregate) IsEmpty() bool {
	return a.BoughtQty == 0 && a.SoldQty == 0 &&
		a.CostLocal == 0 && a.CostBase == 0 &&
		a.ProceedsLocal == 0 && a.ProceedsBase == 0
}

// normalizeDirection maps both trade encodings onto a side plus an unsigned
// quantity: an explicit BUY/SELL tag wins, otherwise the sign of the
// quantity decides (positive = buy, negative = sell).
func normalizeDirection(t domain.Trade) (domain.TradeSide, float64) {
	side := domain.TradeSide(strings.ToUpper(strings.TrimSpace(string(t.Side))))

	switch side {
	case domain.TradeSideBuy, domain.TradeSideSell:
		return side, math.Abs(t.Quantity)
	}

	if t.Quantity < 0 {
		return domain.TradeSideSell, -t.Quantity
	}
	return domain.TradeSideBuy, t.Quantity
}

// localAmount derives the local-currency amount of a trade: the recorded
// local value when present, otherwise quantity times price per share.
func localAmount(t domain.Trade, qty float64) float64 {
	if t.LocalValue != nil {
		return math.Abs(*t.LocalValue)
	}
	if t.PricePerShare != nil {
		return qty * math.Abs(*t.PricePerShare)
	}
	return 0
}

// AggregateTrades folds the full trade ledger into one accumulator per
// stock. The fold is commutative, so ledger ordering never matters. Trades
// without a stock reference are dropped; no currency conversion happens
// here, local and base amounts are taken verbatim from the trade record.
func AggregateTrades(trades []domain.Trade) map[int64]*Aggregate {
	aggregates := make(map[int64]*Aggregate)

	for _, t := range trades {
		if t.StockID <= 0 {
			continue
		}

		side, qty := normalizeDirection(t)

		agg, ok := aggregates[t.StockID]
		if !ok {
			agg = &Aggregate{StockID: t.StockID}
			aggregates[t.StockID] = agg
		}

		local := localAmount(t, qty)

		base := 0.0
		if t.BaseValue != nil {
			base = math.Abs(*t.BaseValue)
		}

		if side == domain.TradeSideBuy {
			agg.BoughtQty += qty
			agg.CostLocal += local
			agg.CostBase += base
		} else {
			agg.SoldQty += qty
			agg.ProceedsLocal += local
			agg.ProceedsBase += base
		}
	}

	return aggregates
}
