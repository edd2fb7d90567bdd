package trading

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
	"github.com/foliotrack/foliotrack/internal/modules/universe"
)

// Handler handles trade ledger HTTP requests
type Handler struct {
	tradeRepo *TradeRepository
	stockRepo *universe.StockRepository
	log       zerolog.Logger
}

// NewHandler creates a new trading handler
func NewHandler(tradeRepo *TradeRepository, stockRepo *universe.StockRepository, log zerolog.Logger) *Handler {
	return &Handler{
		tradeRepo: tradeRepo,
		stockRepo: stockRepo,
		log:       log.With().Str("handler", "trading").Logger(),
	}
}

// HandleGetTrades returns the trade ledger, optionally filtered by stock_id
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	var trades []domain.Trade
	var err error

	if raw := r.URL.Query().Get("stock_id"); raw != "" {
		stockID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			h.writeError(w, http.StatusBadRequest, "invalid stock_id")
			return
		}
		trades, err = h.tradeRepo.GetByStockID(stockID)
	} else {
		trades, err = h.tradeRepo.GetAll()
	}

	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"trades": trades,
	})
}

type addTradeRequest struct {
	StockID       int64    `json:"stock_id"`
	Side          string   `json:"side"`
	TradeDate     string   `json:"trade_date"`
	Quantity      float64  `json:"quantity"`
	PricePerShare *float64 `json:"price_per_share"`
	PriceCurrency string   `json:"price_currency"`
	BaseValue     *float64 `json:"base_value"`
	FXRate        *float64 `json:"fx_rate"`
	Fee           *float64 `json:"fee"`
	FeeCurrency   string   `json:"fee_currency"`
	LocalValue    *float64 `json:"local_value"`
}

// HandleAddTrade appends a trade to the ledger. The side tag is optional
// when the quantity is signed.
func (h *Handler) HandleAddTrade(w http.ResponseWriter, r *http.Request) {
	var req addTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.StockID <= 0 {
		h.writeError(w, http.StatusBadRequest, "stock_id is required")
		return
	}
	if req.Quantity == 0 {
		h.writeError(w, http.StatusBadRequest, "quantity must be non-zero")
		return
	}

	stock, err := h.stockRepo.GetByID(req.StockID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stock == nil {
		h.writeError(w, http.StatusNotFound, "stock not found")
		return
	}

	trade := domain.Trade{
		StockID:       req.StockID,
		Side:          domain.TradeSide(req.Side),
		TradeDate:     req.TradeDate,
		Quantity:      req.Quantity,
		PricePerShare: req.PricePerShare,
		PriceCurrency: domain.NormalizeCurrency(req.PriceCurrency),
		BaseValue:     req.BaseValue,
		FXRate:        req.FXRate,
		Fee:           req.Fee,
		FeeCurrency:   domain.NormalizeCurrency(req.FeeCurrency),
		LocalValue:    req.LocalValue,
	}

	if err := h.tradeRepo.Create(trade); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{
		"status": "created",
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
