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

// ProductHandler handles product HTTP requests. Reads are public; writes are
// staff only.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, product)
}

// Create handles POST /api/products requests. Staff only.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	var req model.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests. Staff only. Stock changes
// through this endpoint drive the low-stock notification trigger.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req model.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, product)
}

// productID extracts and parses the product id from /api/products/{id}.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/products/")
	idStr = strings.TrimSuffix(idStr, "/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID format", h.logger)
		return uuid.Nil, false
	}

	return id, true
}
