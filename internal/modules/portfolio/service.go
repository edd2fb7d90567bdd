package portfolio

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/events"
	"github.com/foliotrack/foliotrack/internal/modules/quotes"
	"github.com/foliotrack/foliotrack/internal/modules/trading"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
)

// Service orchestrates a full portfolio valuation: it loads the stock
// universe, the trade ledger and the quote cache, resolves the FX rates the
// snapshot needs, and runs the valuation pass.
type Service struct {
	base         domain.Currency
	stockRepo    *universe.StockRepository
	tradeRepo    *trading.TradeRepository
	quoteRepo    *quotes.QuoteRepository
	fxCache      *quotes.FXRateCache
	eventManager *events.Manager
	log          zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(
	base domain.Currency,
	stockRepo *universe.StockRepository,
	tradeRepo *trading.TradeRepository,
	quoteRepo *quotes.QuoteRepository,
	fxCache *quotes.FXRateCache,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		base:         base,
		stockRepo:    stockRepo,
		tradeRepo:    tradeRepo,
		quoteRepo:    quoteRepo,
		fxCache:      fxCache,
		eventManager: eventManager,
		log:          log.With().Str("service", "portfolio").Logger(),
	}
}

// Valuate runs one full valuation over the current ledger and quote cache
func (s *Service) Valuate() (Valuation, error) {
	stocks, err := s.stockRepo.GetAll()
	if err != nil {
		return Valuation{}, fmt.Errorf("failed to load stocks: %w", err)
	}

	trades, err := s.tradeRepo.GetAll()
	if err != nil {
		return Valuation{}, fmt.Errorf("failed to load trades: %w", err)
	}

	cached, err := s.quoteRepo.GetAll()
	if err != nil {
		// A broken quote cache degrades to cost basis, it never blocks
		s.log.Warn().Err(err).Msg("Quote cache unavailable, valuing at cost")
		cached = map[string]domain.QuoteRecord{}
	}

	rates := s.fxCache.Rates(quoteCurrencies(cached))

	valuation := Valuate(Inputs{
		Base:       s.base,
		Stocks:     stocks,
		Aggregates: trading.AggregateTrades(trades),
		Quotes:     cached,
		Rates:      rates,
	})

	for _, anomaly := range valuation.Anomalies {
		s.log.Warn().
			Int64("stock_id", anomaly.StockID).
			Str("ticker", anomaly.Ticker).
			Float64("net_qty", anomaly.NetQty).
			Msg("Ledger sells more shares than it buys, excluding stock")
	}

	s.eventManager.Emit(events.ValuationComplete, "portfolio", map[string]interface{}{
		"open":      len(valuation.Open),
		"closed":    len(valuation.Closed),
		"anomalies": len(valuation.Anomalies),
	})

	return valuation, nil
}

// quoteCurrencies collects the distinct currencies present in the quote
// cache, so the FX cache only fetches rates the valuation can actually use
func quoteCurrencies(cached map[string]domain.QuoteRecord) map[domain.Currency]bool {
	needed := make(map[domain.Currency]bool)
	for _, rec := range cached {
		needed[rec.Currency] = true
	}
	return needed
}
