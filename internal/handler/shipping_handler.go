package handler

import (
	"net/http"

	"shopstack/internal/shipping"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ShippingHandler handles shipping serviceability HTTP requests.
type ShippingHandler struct {
	gateway *shipping.Client
	logger  zerolog.Logger
}

// NewShippingHandler creates a new shipping handler.
func NewShippingHandler(gateway *shipping.Client, logger zerolog.Logger) *ShippingHandler {
	return &ShippingHandler{
		gateway: gateway,
		logger:  logger.With().Str("handler", "shipping").Logger(),
	}
}

// CheckServiceability handles GET /api/shipping/serviceability requests.
func (h *ShippingHandler) CheckServiceability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pickup := query.Get("pickup_postcode")
	delivery := query.Get("delivery_postcode")
	cod := query.Get("cod") == "1" || query.Get("cod") == "true"

	weight := decimal.NewFromFloat(0.5)
	if s := query.Get("weight"); s != "" {
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid weight", h.logger)
			return
		}
		weight = parsed
	}

	result, err := h.gateway.CheckServiceability(r.Context(), pickup, delivery, weight, cod)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}
