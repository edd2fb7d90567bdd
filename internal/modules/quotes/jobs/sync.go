package jobs

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/clients/marketdata"
	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/events"
	"github.com/foliotrack/foliotrack/internal/modules/quotes"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
)

// QuoteClient is the slice of the market data client the sync job needs
type QuoteClient interface {
	GetQuotes(symbols []string) ([]marketdata.Quote, error)
}

// SyncJob refreshes the quote cache from the market data provider
type SyncJob struct {
	stockRepo    *universe.StockRepository
	quoteRepo    *quotes.QuoteRepository
	client       QuoteClient
	eventManager *events.Manager
	log          zerolog.Logger
}

// NewSyncJob creates a new quote sync job
func NewSyncJob(
	stockRepo *universe.StockRepository,
	quoteRepo *quotes.QuoteRepository,
	client QuoteClient,
	eventManager *events.Manager,
	log zerolog.Logger,
) *SyncJob {
	return &SyncJob{
		stockRepo:    stockRepo,
		quoteRepo:    quoteRepo,
		client:       client,
		eventManager: eventManager,
		log:          log.With().Str("job", "quote_sync").Logger(),
	}
}

// Name returns the job name for the scheduler
func (j *SyncJob) Name() string {
	return "quote_sync"
}

// Run fetches fresh quotes for every stock in the universe and stores them
// in the quote cache. Symbols the provider doesn't return keep their last
// cached value; valuation falls back to cost basis when a quote is stale
// or missing entirely.
func (j *SyncJob) Run() error {
	j.eventManager.Emit(events.QuoteSyncStart, "quotes", map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
	})

	stocks, err := j.stockRepo.GetAll()
	if err != nil {
		j.eventManager.EmitError("quotes", err, map[string]interface{}{
			"step": "load_stocks",
		})
		return fmt.Errorf("failed to load stocks: %w", err)
	}

	symbols := providerSymbols(stocks)
	if len(symbols) == 0 {
		j.log.Info().Msg("No mappable stocks, nothing to sync")
		return nil
	}

	fetched, err := j.client.GetQuotes(symbols)
	if err != nil {
		j.eventManager.EmitError("quotes", err, map[string]interface{}{
			"step": "fetch_quotes",
		})
		return fmt.Errorf("failed to fetch quotes: %w", err)
	}

	now := time.Now()
	today := now.Format("2006-01-02")
	stored := 0

	for _, q := range fetched {
		rec := domain.QuoteRecord{
			Symbol:      q.Symbol,
			Price:       q.Price,
			Currency:    domain.NormalizeCurrency(q.Currency),
			LastUpdated: now,
		}

		if err := j.quoteRepo.Upsert(rec); err != nil {
			j.log.Warn().Err(err).Str("symbol", q.Symbol).Msg("Failed to store quote")
			continue
		}

		if err := j.quoteRepo.RecordClose(q.Symbol, today, q.Price); err != nil {
			j.log.Warn().Err(err).Str("symbol", q.Symbol).Msg("Failed to record close")
		}

		stored++
	}

	j.eventManager.Emit(events.QuoteSyncComplete, "quotes", map[string]interface{}{
		"requested": len(symbols),
		"stored":    stored,
	})

	j.log.Info().
		Int("requested", len(symbols)).
		Int("stored", stored).
		Msg("Quote sync complete")

	return nil
}

// providerSymbols maps stocks to deduplicated provider symbols
func providerSymbols(stocks []domain.Stock) []string {
	seen := make(map[string]bool)
	var symbols []string

	for _, stock := range stocks {
		symbol := universe.ProviderSymbol(stock.Ticker, stock.Exchange)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	return symbols
}
