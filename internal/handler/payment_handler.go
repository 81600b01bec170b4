package handler

import (
	"encoding/json"
	"net/http"

	"shopstack/internal/payment"

	"github.com/rs/zerolog"
)

// PaymentHandler handles payment gateway HTTP requests. Neither endpoint
// touches order rows; applying paymentStatus=paid happens through the order
// update surface.
type PaymentHandler struct {
	gateway *payment.Client
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(gateway *payment.Client, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		gateway: gateway,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

type createGatewayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
	Receipt  string `json:"receipt,omitempty"`
}

// CreateGatewayOrder handles POST /api/orders/create-razorpay-order requests.
// Amount is in minor currency units.
func (h *PaymentHandler) CreateGatewayOrder(w http.ResponseWriter, r *http.Request) {
	var req createGatewayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.gateway.CreateOrder(r.Context(), req.Amount, req.Currency, req.Receipt)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, order)
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPayment handles POST /api/orders/verify-payment requests. It checks
// the gateway signature and nothing else.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.gateway.VerifyPayment(req.OrderID, req.PaymentID, req.Signature); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{
		"order_id":   req.OrderID,
		"payment_id": req.PaymentID,
	})
}
