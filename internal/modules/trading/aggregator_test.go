package trading

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliotrack/foliotrack/internal/domain"
)

func fptr(f float64) *float64 { return &f }

func TestAggregateTrades_TaggedAndSignedEncodings(t *testing.T) {
	// Same ledger expressed in both encodings must aggregate identically.
	tagged := []domain.Trade{
		{StockID: 1, Side: domain.TradeSideBuy, Quantity: 10, BaseValue: fptr(100), PricePerShare: fptr(9.5)},
		{StockID: 1, Side: domain.TradeSideSell, Quantity: 4, BaseValue: fptr(52), PricePerShare: fptr(12.0)},
	}
	signed := []domain.Trade{
		{StockID: 1, Quantity: 10, BaseValue: fptr(100), PricePerShare: fptr(9.5)},
		{StockID: 1, Quantity: -4, BaseValue: fptr(-52), PricePerShare: fptr(12.0)},
	}

	aggTagged := AggregateTrades(tagged)
	aggSigned := AggregateTrades(signed)

	require.Len(t, aggTagged, 1)
	require.Len(t, aggSigned, 1)

	for _, agg := range []*Aggregate{aggTagged[1], aggSigned[1]} {
		assert.Equal(t, 10.0, agg.BoughtQty)
		assert.Equal(t, 4.0, agg.SoldQty)
		assert.Equal(t, 6.0, agg.NetQty())
		assert.Equal(t, 100.0, agg.CostBase)
		// Proceeds accumulate as non-negative magnitudes in both encodings
		assert.Equal(t, 52.0, agg.ProceedsBase)
	}
}

func TestAggregateTrades_OrderIndependence(t *testing.T) {
	trades := []domain.Trade{
		{StockID: 1, Side: domain.TradeSideBuy, Quantity: 5, BaseValue: fptr(50)},
		{StockID: 1, Side: domain.TradeSideSell, Quantity: 2, BaseValue: fptr(24)},
		{StockID: 1, Side: domain.TradeSideBuy, Quantity: 3, BaseValue: fptr(36)},
		{StockID: 2, Side: domain.TradeSideBuy, Quantity: 7, BaseValue: fptr(70)},
		{StockID: 2, Side: domain.TradeSideSell, Quantity: 7, BaseValue: fptr(84)},
	}

	want := AggregateTrades(trades)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.Trade, len(trades))
		copy(shuffled, trades)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := AggregateTrades(shuffled)
		require.Len(t, got, len(want))
		for id, agg := range want {
			assert.Equal(t, *agg, *got[id], "stock %d", id)
		}
	}
}

func TestAggregateTrades_DropsMalformedRows(t *testing.T) {
	trades := []domain.Trade{
		{StockID: 0, Side: domain.TradeSideBuy, Quantity: 10, BaseValue: fptr(100)},
		{StockID: -1, Side: domain.TradeSideSell, Quantity: 5, BaseValue: fptr(50)},
		{StockID: 3, Side: domain.TradeSideBuy, Quantity: 1, BaseValue: fptr(10)},
	}

	aggregates := AggregateTrades(trades)

	require.Len(t, aggregates, 1)
	assert.Equal(t, 1.0, aggregates[3].BoughtQty)
}

func TestAggregateTrades_LocalAmounts(t *testing.T) {
	trades := []domain.Trade{
		// Recorded local value wins over quantity * price
		{StockID: 1, Side: domain.TradeSideBuy, Quantity: 10, PricePerShare: fptr(2.0), LocalValue: fptr(21.5), BaseValue: fptr(18)},
		// Without a local value, fall back to quantity * price
		{StockID: 1, Side: domain.TradeSideBuy, Quantity: 4, PricePerShare: fptr(3.0), BaseValue: fptr(10)},
		// Neither present: local contribution is zero
		{StockID: 1, Side: domain.TradeSideSell, Quantity: 2, BaseValue: fptr(8)},
	}

	aggregates := AggregateTrades(trades)
	agg := aggregates[1]

	assert.InDelta(t, 33.5, agg.CostLocal, 1e-9)
	assert.Equal(t, 0.0, agg.ProceedsLocal)
	assert.Equal(t, 28.0, agg.CostBase)
	assert.Equal(t, 8.0, agg.ProceedsBase)
}

func TestAggregateTrades_QuantityInvariant(t *testing.T) {
	trades := []domain.Trade{
		{StockID: 1, Quantity: 12, BaseValue: fptr(120)},
		{StockID: 1, Quantity: -5, BaseValue: fptr(60)},
		{StockID: 1, Side: domain.TradeSideSell, Quantity: 3, BaseValue: fptr(40)},
	}

	aggregates := AggregateTrades(trades)
	agg := aggregates[1]

	assert.GreaterOrEqual(t, agg.BoughtQty, 0.0)
	assert.GreaterOrEqual(t, agg.SoldQty, 0.0)
	assert.Equal(t, agg.BoughtQty-agg.SoldQty, agg.NetQty())
	assert.Equal(t, 4.0, agg.NetQty())
}

func TestAggregate_IsEmpty(t *testing.T) {
	assert.True(t, (&Aggregate{StockID: 1}).IsEmpty())
	assert.False(t, (&Aggregate{StockID: 1, BoughtQty: 1}).IsEmpty())
	assert.False(t, (&Aggregate{StockID: 1, ProceedsBase: 0.5}).IsEmpty())
}
