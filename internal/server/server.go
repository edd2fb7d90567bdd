package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/modules/portfolio"
	"github.com/foliotrack/foliotrack/internal/modules/trading"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
	"github.com/foliotrack/foliotrack/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Port             int
	Log              zerolog.Logger
	DevMode          bool
	PortfolioHandler *portfolio.Handler
	UniverseHandler  *universe.Handler
	TradingHandler   *trading.Handler
	Scheduler        *scheduler.Scheduler
	QuoteSyncJob     scheduler.Job
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	port   int

	portfolioHandler *portfolio.Handler
	universeHandler  *universe.Handler
	tradingHandler   *trading.Handler
	scheduler        *scheduler.Scheduler
	quoteSyncJob     scheduler.Job
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:           chi.NewRouter(),
		log:              cfg.Log.With().Str("component", "server").Logger(),
		port:             cfg.Port,
		portfolioHandler: cfg.PortfolioHandler,
		universeHandler:  cfg.UniverseHandler,
		tradingHandler:   cfg.TradingHandler,
		scheduler:        cfg.Scheduler,
		quoteSyncJob:     cfg.QuoteSyncJob,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/", s.portfolioHandler.HandleGetPortfolio)
			r.Get("/view", s.portfolioHandler.HandleGetView)
			r.Get("/performance", s.portfolioHandler.HandleGetPerformance)
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", s.universeHandler.HandleGetStocks)
			r.Post("/", s.universeHandler.HandleAddStock)
		})

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.tradingHandler.HandleGetTrades)
			r.Post("/", s.tradingHandler.HandleAddTrade)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/sync", s.handleQuoteSync)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
