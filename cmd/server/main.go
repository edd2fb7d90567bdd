package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foliotrack/foliotrack/internal/clients/fxrates"
	"github.com/foliotrack/foliotrack/internal/clients/marketdata"
	"github.com/foliotrack/foliotrack/internal/config"
	"github.com/foliotrack/foliotrack/internal/database"
	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/events"
	"github.com/foliotrack/foliotrack/internal/modules/portfolio"
	"github.com/foliotrack/foliotrack/internal/modules/quotes"
	quotejobs "github.com/foliotrack/foliotrack/internal/modules/quotes/jobs"
	"github.com/foliotrack/foliotrack/internal/modules/trading"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
	"github.com/foliotrack/foliotrack/internal/scheduler"
	"github.com/foliotrack/foliotrack/internal/server"
	"github.com/foliotrack/foliotrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("base_currency", cfg.BaseCurrency).
		Str("database", cfg.DatabasePath).
		Msg("Starting foliotrack")

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(universe.StocksSchema, trading.TradesSchema, quotes.QuotesSchema); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	base := domain.NormalizeCurrency(cfg.BaseCurrency)
	eventManager := events.NewManager(log)

	// Repositories
	stockRepo := universe.NewStockRepository(db.Conn(), log)
	tradeRepo := trading.NewTradeRepository(db.Conn(), log)
	quoteRepo := quotes.NewQuoteRepository(db.Conn(), log)

	// External providers
	quoteClient := marketdata.NewClient(cfg.QuoteProviderURL, log)
	fxClient := fxrates.NewClient(cfg.FXProviderURL, log)
	fxCache := quotes.NewFXRateCache(base, fxClient.GetRates, log)

	// Services and handlers
	portfolioService := portfolio.NewService(base, stockRepo, tradeRepo, quoteRepo, fxCache, eventManager, log)
	portfolioHandler := portfolio.NewHandler(portfolioService, base, log)
	universeHandler := universe.NewHandler(stockRepo, eventManager, log)
	tradingHandler := trading.NewHandler(tradeRepo, stockRepo, log)

	// Background jobs
	syncJob := quotejobs.NewSyncJob(stockRepo, quoteRepo, quoteClient, eventManager, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.QuoteSyncSchedule, syncJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.QuoteSyncSchedule).Msg("Failed to register quote sync job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Port:             cfg.Port,
		Log:              log,
		DevMode:          cfg.DevMode,
		PortfolioHandler: portfolioHandler,
		UniverseHandler:  universeHandler,
		TradingHandler:   tradingHandler,
		Scheduler:        sched,
		QuoteSyncJob:     syncJob,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
