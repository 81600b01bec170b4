package handler

import (
	"encoding/json"
	"net/http"

	"shopstack/internal/model"
	"shopstack/internal/service"

	"github.com/rs/zerolog"
)

// CouponHandler handles coupon HTTP requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// Validate handles POST /api/coupons/validate requests. Validation is a
// read-only check; the coupon's usage counter is untouched.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	discount, err := h.service.Validate(r.Context(), req.Code, req.Amount)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, discount)
}
