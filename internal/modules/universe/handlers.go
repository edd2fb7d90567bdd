package universe

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/events"
)

// Handler handles stock universe HTTP requests
type Handler struct {
	repo         *StockRepository
	eventManager *events.Manager
	log          zerolog.Logger
}

// NewHandler creates a new universe handler
func NewHandler(repo *StockRepository, eventManager *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		repo:         repo,
		eventManager: eventManager,
		log:          log.With().Str("handler", "universe").Logger(),
	}
}

// HandleGetStocks returns all stocks
func (h *Handler) HandleGetStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.repo.GetAll()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"stocks": stocks,
	})
}

type addStockRequest struct {
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// HandleAddStock registers a stock, reusing the existing row when the
// (ticker, exchange) pair is already known
func (h *Handler) HandleAddStock(w http.ResponseWriter, r *http.Request) {
	var req addStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Ticker) == "" {
		h.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	stock := domain.Stock{
		Ticker:   req.Ticker,
		Exchange: req.Exchange,
		Name:     req.Name,
		Currency: domain.NormalizeCurrency(req.Currency),
	}

	id, err := h.repo.Upsert(stock)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.eventManager.Emit(events.StockAdded, "universe", map[string]interface{}{
		"id":       id,
		"ticker":   stock.Ticker,
		"exchange": stock.Exchange,
	})

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id": id,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
