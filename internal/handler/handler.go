package handler

import (
	"encoding/json"
	"net/http"

	"shopstack/internal/middleware"
	"shopstack/internal/model"

	"github.com/rs/zerolog"
)

// Response is the envelope every endpoint responds with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeSuccess writes a success envelope carrying data.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

// writeMessage writes a success envelope carrying only a message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: true, Message: message})
}

// writeError writes an error envelope with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, Response{Success: false, Message: message})
}

// writeServiceError maps a service error to a response. Domain errors carry
// their own status; anything else is an opaque 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	if de, ok := model.AsDomainError(err); ok {
		logger.Warn().Str("code", de.Code).Str("error", de.Message).Msg("request rejected")
		writeJSON(w, de.Status, Response{Success: false, Message: de.Message})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
}

// requireActor returns the authenticated actor, writing a 401 when the
// request is anonymous.
func requireActor(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (model.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required", logger)
		return model.Actor{}, false
	}
	return actor, true
}

// requireStaff returns the authenticated actor, writing a 401 or 403 when the
// request is anonymous or the actor is not staff.
func requireStaff(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (model.Actor, bool) {
	actor, ok := requireActor(w, r, logger)
	if !ok {
		return model.Actor{}, false
	}
	if !actor.IsStaff() {
		writeError(w, http.StatusForbidden, "insufficient permissions", logger)
		return model.Actor{}, false
	}
	return actor, true
}
