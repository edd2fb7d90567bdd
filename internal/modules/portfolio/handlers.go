package portfolio

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/foliotrack/foliotrack/internal/domain"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *Service
	base    domain.Currency
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *Service, base domain.Currency, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		base:    base,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetPortfolio returns the full valuation as JSON
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	valuation, err := h.service.Valuate()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"base_currency": h.base,
		"valuation":     valuation,
	})
}

// HandleGetView renders the valuation as an HTML page
func (h *Handler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	valuation, err := h.service.Valuate()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := RenderView(w, h.base, valuation); err != nil {
		h.log.Error().Err(err).Msg("Failed to render portfolio view")
	}
}

// HandleGetPerformance returns momentum and volatility indicators for held stocks
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Performance()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"stocks": report,
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
