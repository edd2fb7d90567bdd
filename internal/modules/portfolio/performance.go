package portfolio

import (
	"fmt"

	"github.com/foliotrack/foliotrack/internal/modules/trading"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
	"github.com/foliotrack/foliotrack/pkg/formulas"
)

const (
	rsiPeriod      = 14
	smaPeriod      = 20
	historyWindow  = 60
	minReturnCount = 5
)

// StockPerformance holds momentum and volatility indicators for one held
// stock, derived from its recorded daily closes. Indicator fields are nil
// when the price history is too short.
type StockPerformance struct {
	StockID    int64    `json:"stock_id"`
	Ticker     string   `json:"ticker"`
	Exchange   string   `json:"exchange"`
	RSI14      *float64 `json:"rsi_14,omitempty"`
	SMA20      *float64 `json:"sma_20,omitempty"`
	Volatility *float64 `json:"annualized_volatility,omitempty"`
	Samples    int      `json:"samples"`
}

// Performance computes indicators for every stock currently held open.
// Stocks with no mappable provider symbol or no history report zero samples.
func (s *Service) Performance() ([]StockPerformance, error) {
	stocks, err := s.stockRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}

	trades, err := s.tradeRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	aggregates := trading.AggregateTrades(trades)

	var report []StockPerformance
	for _, stock := range stocks {
		agg, ok := aggregates[stock.ID]
		if !ok || agg.NetQty() <= 0 {
			continue
		}

		perf := StockPerformance{
			StockID:  stock.ID,
			Ticker:   stock.Ticker,
			Exchange: stock.Exchange,
		}

		symbol := universe.ProviderSymbol(stock.Ticker, stock.Exchange)
		if symbol != "" {
			closes, err := s.quoteRepo.GetCloses(symbol, historyWindow)
			if err != nil {
				s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to load price history")
			} else {
				perf.Samples = len(closes)
				perf.RSI14 = formulas.CalculateRSI(closes, rsiPeriod)
				perf.SMA20 = formulas.CalculateSMA(closes, smaPeriod)

				returns := formulas.CalculateReturns(closes)
				if len(returns) >= minReturnCount {
					vol := formulas.AnnualizedVolatility(returns)
					perf.Volatility = &vol
				}
			}
		}

		report = append(report, perf)
	}

	return report, nil
}
