package portfolio

import (
	"sort"
	"time"

	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/modules/quotes"
	"github.com/foliotrack/foliotrack/internal/modules/trading"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
)

// Inputs is a complete snapshot for one valuation pass. The pass is pure:
// it reads the snapshot and produces a Valuation, nothing else.
type Inputs struct {
	Base       domain.Currency
	Stocks     []domain.Stock
	Aggregates map[int64]*trading.Aggregate
	Quotes     map[string]domain.QuoteRecord // keyed by provider symbol
	Rates      quotes.RateTable
}

// Valuate classifies every traded stock as open, closed, or unclassified
// and computes the derived metrics and portfolio totals.
//
// Classification: net > 0 is OPEN, net == 0 with any recorded flow is
// CLOSED, net < 0 is an anomaly. Stocks whose accumulator is entirely zero
// are skipped. Open positions without a resolvable live price fall back to
// their cost basis (zero unrealized gain) instead of being dropped.
func Valuate(in Inputs) Valuation {
	var result Valuation
	var lastUpdate time.Time

	for _, stock := range in.Stocks {
		agg, ok := in.Aggregates[stock.ID]
		if !ok || agg.IsEmpty() {
			continue
		}

		net := agg.NetQty()

		switch {
		case net > 0:
			pos, quotedAt := valuateOpen(stock, agg, net, in)
			result.Open = append(result.Open, pos)
			if quotedAt != nil && quotedAt.After(lastUpdate) {
				lastUpdate = *quotedAt
			}

		case net == 0:
			result.Closed = append(result.Closed, valuateClosed(stock, agg))

		default:
			result.Anomalies = append(result.Anomalies, Anomaly{
				StockID: stock.ID,
				Ticker:  stock.Ticker,
				NetQty:  net,
			})
		}
	}

	// Stable sorts keep input encounter order on ties
	sort.SliceStable(result.Open, func(i, j int) bool {
		return result.Open[i].MarketValueBase > result.Open[j].MarketValueBase
	})
	sort.SliceStable(result.Closed, func(i, j int) bool {
		return result.Closed[i].RealizedGain > result.Closed[j].RealizedGain
	})

	result.Totals = computeTotals(result.Open, result.Closed)

	if !lastUpdate.IsZero() {
		result.LastPriceUpdate = &lastUpdate
	}

	return result
}

func valuateOpen(stock domain.Stock, agg *trading.Aggregate, net float64, in Inputs) (OpenPosition, *time.Time) {
	avgLocal := safeDiv(agg.CostLocal, agg.BoughtQty)
	avgBase := safeDiv(agg.CostBase, agg.BoughtQty)

	pos := OpenPosition{
		StockID:      stock.ID,
		Ticker:       stock.Ticker,
		Exchange:     stock.Exchange,
		Name:         stock.Name,
		Currency:     stock.Currency,
		Quantity:     net,
		AvgCostLocal: avgLocal,
		AvgCostBase:  avgBase,
		CostLocal:    avgLocal * net,
		CostBase:     avgBase * net,
	}

	// Default to cost basis; a resolved quote overrides below
	pos.MarketValueLocal = pos.CostLocal
	pos.MarketValueBase = pos.CostBase

	var quotedAt *time.Time

	symbol := universe.ProviderSymbol(stock.Ticker, stock.Exchange)
	if rec, ok := in.Quotes[symbol]; ok && symbol != "" {
		t := rec.LastUpdated
		quotedAt = &t

		if priceBase, ok := quotes.NormalizePrice(rec.Price, rec.Currency, in.Base, in.Rates); ok {
			pos.PriceBase = &priceBase
			pos.MarketValueBase = priceBase * net

			// Local price resolves only when no cross-currency conversion
			// is involved (same currency or a minor-unit alias of it)
			if priceLocal, ok := quotes.NormalizePrice(rec.Price, rec.Currency, stock.Currency, quotes.RateTable{}); ok {
				pos.PriceLocal = &priceLocal
				pos.MarketValueLocal = priceLocal * net
			}
		}
	}

	pos.UnrealizedGain = pos.MarketValueBase - pos.CostBase
	if pos.CostBase > 0 {
		pct := pos.UnrealizedGain / pos.CostBase
		pos.GainPct = &pct
	}

	return pos, quotedAt
}

func valuateClosed(stock domain.Stock, agg *trading.Aggregate) ClosedPosition {
	pos := ClosedPosition{
		StockID:       stock.ID,
		Ticker:        stock.Ticker,
		Exchange:      stock.Exchange,
		Name:          stock.Name,
		Currency:      stock.Currency,
		CostLocal:     agg.CostLocal,
		CostBase:      agg.CostBase,
		ProceedsLocal: agg.ProceedsLocal,
		ProceedsBase:  agg.ProceedsBase,
		RealizedGain:  agg.ProceedsBase - agg.CostBase,
	}

	if pos.CostBase > 0 {
		pct := pos.RealizedGain / pos.CostBase
		pos.GainPct = &pct
	}

	return pos
}

func computeTotals(open []OpenPosition, closed []ClosedPosition) Totals {
	var t Totals

	for _, pos := range open {
		t.OpenCost += pos.CostBase
		t.OpenMarketValue += pos.MarketValueBase
		t.UnrealizedGain += pos.UnrealizedGain
	}
	if t.OpenCost > 0 {
		pct := t.UnrealizedGain / t.OpenCost
		t.UnrealizedPct = &pct
	}

	for _, pos := range closed {
		t.ClosedCost += pos.CostBase
		t.ClosedProceeds += pos.ProceedsBase
		t.RealizedGain += pos.RealizedGain
	}
	if t.ClosedCost > 0 {
		pct := t.RealizedGain / t.ClosedCost
		t.RealizedPct = &pct
	}

	return t
}

// safeDiv guards the no-acquired-shares case: 0, never an error
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
