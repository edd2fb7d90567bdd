package jobs

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/foliotrack/foliotrack/internal/clients/marketdata"
	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/events"
	"github.com/foliotrack/foliotrack/internal/modules/quotes"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
)

type fakeQuoteClient struct {
	requested []string
	quotes    []marketdata.Quote
	err       error
}

func (c *fakeQuoteClient) GetQuotes(symbols []string) ([]marketdata.Quote, error) {
	c.requested = symbols
	return c.quotes, c.err
}

func setupSyncJob(t *testing.T, client *fakeQuoteClient) (*SyncJob, *universe.StockRepository, *quotes.QuoteRepository) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, universe.InitSchema(db))
	require.NoError(t, quotes.InitSchema(db))

	stockRepo := universe.NewStockRepository(db, zerolog.Nop())
	quoteRepo := quotes.NewQuoteRepository(db, zerolog.Nop())
	job := NewSyncJob(stockRepo, quoteRepo, client, events.NewManager(zerolog.Nop()), zerolog.Nop())

	return job, stockRepo, quoteRepo
}

func TestSyncJob_StoresQuotesAndCloses(t *testing.T) {
	client := &fakeQuoteClient{
		quotes: []marketdata.Quote{
			{Symbol: "OGZD.L", Price: 450, Currency: "GBp"},
			{Symbol: "MSFT", Price: 410.5, Currency: "USD"},
		},
	}
	job, stockRepo, quoteRepo := setupSyncJob(t, client)

	_, err := stockRepo.Upsert(domain.Stock{Ticker: "OGZD", Exchange: "LSE", Name: "Gazprom", Currency: domain.CurrencyGBX})
	require.NoError(t, err)
	_, err = stockRepo.Upsert(domain.Stock{Ticker: "MSFT", Exchange: "NASDAQ", Name: "Microsoft", Currency: domain.CurrencyUSD})
	require.NoError(t, err)

	require.NoError(t, job.Run())

	assert.ElementsMatch(t, []string{"OGZD.L", "MSFT"}, client.requested)

	records, err := quoteRepo.GetAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Provider currency spellings are normalized on the way in
	assert.Equal(t, domain.CurrencyGBX, records["OGZD.L"].Currency)
	assert.Equal(t, 410.5, records["MSFT"].Price)

	closes, err := quoteRepo.GetCloses("MSFT", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{410.5}, closes)
}

func TestSyncJob_EmptyUniverseSkipsProvider(t *testing.T) {
	client := &fakeQuoteClient{}
	job, _, _ := setupSyncJob(t, client)

	require.NoError(t, job.Run())
	assert.Nil(t, client.requested)
}

func TestSyncJob_ProviderFailurePropagates(t *testing.T) {
	client := &fakeQuoteClient{err: fmt.Errorf("provider down")}
	job, stockRepo, quoteRepo := setupSyncJob(t, client)

	_, err := stockRepo.Upsert(domain.Stock{Ticker: "MSFT", Exchange: "NASDAQ", Name: "Microsoft", Currency: domain.CurrencyUSD})
	require.NoError(t, err)

	require.Error(t, job.Run())

	// Nothing was written; the stale cache stays authoritative
	records, err := quoteRepo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestProviderSymbols_Dedupes(t *testing.T) {
	symbols := providerSymbols([]domain.Stock{
		{Ticker: "MSFT", Exchange: "NASDAQ"},
		{Ticker: "MSFT", Exchange: "US"},
		{Ticker: "OGZD", Exchange: "LSE"},
		{Ticker: "", Exchange: "LSE"},
	})

	assert.Equal(t, []string{"MSFT", "OGZD.L"}, symbols)
}
