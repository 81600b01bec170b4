package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"shopstack/internal/model"
	"shopstack/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests. Checkout is open to guests, so
// no actor is required.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, order)
}

// List handles GET /api/orders requests. Customers only ever see their own
// orders regardless of the filters they send.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	filter, err := parseOrderFilter(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	orders, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.logger)
	if !ok {
		return
	}

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, order)
}

// Update handles PUT /api/orders/{id} requests. Staff only.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id} requests. Staff only.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeMessage(w, http.StatusOK, "order deleted")
}

// orderID extracts and parses the order id from /api/orders/{id}.
func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	idStr = strings.TrimSuffix(idStr, "/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "order ID is required", h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}

	return id, true
}

// parseOrderFilter builds an order filter from list query parameters.
func parseOrderFilter(r *http.Request) (model.OrderFilter, error) {
	var filter model.OrderFilter
	query := r.URL.Query()

	if s := query.Get("status"); s != "" {
		status := model.OrderStatus(s)
		if !status.Valid() {
			return filter, model.NewValidationError("invalid status filter: " + s)
		}
		filter.Status = &status
	}

	if s := query.Get("paymentStatus"); s != "" {
		status := model.PaymentStatus(s)
		if !status.Valid() {
			return filter, model.NewValidationError("invalid payment status filter: " + s)
		}
		filter.PaymentStatus = &status
	}

	if s := query.Get("customer"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return filter, model.NewValidationError("invalid customer filter")
		}
		filter.CustomerID = &id
	}

	if s := query.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return filter, model.NewValidationError("invalid limit")
		}
		filter.Limit = limit
	}

	if s := query.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil {
			return filter, model.NewValidationError("invalid offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}
