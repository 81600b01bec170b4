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

// NotificationHandler handles the dashboard notification feed. All endpoints
// are staff only.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("handler", "notification").Logger(),
	}
}

// List handles GET /api/notifications requests.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	query := r.URL.Query()
	unreadOnly := query.Get("unread") == "true"

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	notifications, err := h.service.List(r.Context(), unreadOnly, limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, notifications)
}

// Create handles POST /api/notifications requests.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	var req model.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	notification, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, notification)
}

// MarkRead handles PATCH /api/notifications/{id}/read requests.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/notifications/")
	idStr = strings.TrimSuffix(idStr, "/read")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification ID format", h.logger)
		return
	}

	notification, err := h.service.MarkRead(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, notification)
}

// MarkAllRead handles PATCH /api/notifications/read-all requests.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r, h.logger); !ok {
		return
	}

	count, err := h.service.MarkAllRead(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]int64{"updated": count})
}
