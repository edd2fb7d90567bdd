package trading

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/foliotrack/foliotrack/internal/domain"
)

func setupTestRepo(t *testing.T) *TradeRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(db))

	return NewTradeRepository(db, zerolog.Nop())
}

func TestTradeRepository_CreateAndGetAll(t *testing.T) {
	repo := setupTestRepo(t)

	require.NoError(t, repo.Create(domain.Trade{
		StockID:       1,
		Side:          domain.TradeSideBuy,
		TradeDate:     "2025-01-15",
		Quantity:      10,
		PricePerShare: fptr(4.5),
		PriceCurrency: domain.CurrencyGBX,
		BaseValue:     fptr(45),
		LocalValue:    fptr(4500),
	}))

	// Untagged trade with a signed quantity and sparse optional fields
	require.NoError(t, repo.Create(domain.Trade{
		StockID:   1,
		TradeDate: "2025-02-01",
		Quantity:  -4,
		BaseValue: fptr(20),
	}))

	trades, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, trades, 2)

	buy := trades[0]
	assert.Equal(t, domain.TradeSideBuy, buy.Side)
	assert.Equal(t, "2025-01-15", buy.TradeDate)
	require.NotNil(t, buy.PricePerShare)
	assert.Equal(t, 4.5, *buy.PricePerShare)
	assert.Equal(t, domain.CurrencyGBX, buy.PriceCurrency)
	require.NotNil(t, buy.LocalValue)
	assert.Equal(t, 4500.0, *buy.LocalValue)
	require.NotNil(t, buy.CreatedAt)

	sell := trades[1]
	assert.Empty(t, sell.Side)
	assert.Equal(t, -4.0, sell.Quantity)
	assert.Nil(t, sell.PricePerShare)
	assert.Nil(t, sell.FXRate)

	// The ledger roundtrips into the aggregator cleanly
	aggregates := AggregateTrades(trades)
	require.Contains(t, aggregates, int64(1))
	assert.InDelta(t, 6.0, aggregates[1].NetQty(), 1e-9)
	assert.InDelta(t, 45.0, aggregates[1].CostBase, 1e-9)
	assert.InDelta(t, 20.0, aggregates[1].ProceedsBase, 1e-9)
}

func TestTradeRepository_GetByStockID(t *testing.T) {
	repo := setupTestRepo(t)

	for _, stockID := range []int64{1, 2, 1} {
		require.NoError(t, repo.Create(domain.Trade{
			StockID:   stockID,
			Side:      domain.TradeSideBuy,
			TradeDate: "2025-01-15",
			Quantity:  1,
		}))
	}

	trades, err := repo.GetByStockID(1)
	require.NoError(t, err)
	assert.Len(t, trades, 2)

	trades, err = repo.GetByStockID(99)
	require.NoError(t, err)
	assert.Empty(t, trades)
}
