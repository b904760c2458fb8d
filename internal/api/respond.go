package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ashishpal07/qp-assessment/internal/database"
)

// Every response body carries a human-readable message; success responses
// additionally carry the affected entity under its own key.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondMessage(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}

// respondStoreError maps a store failure onto the error taxonomy. Unknown
// errors are logged and surfaced as a generic 500; internals never reach
// the client.
func (s *Server) respondStoreError(w http.ResponseWriter, err error, internalMessage string) {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		s.log.Error(internalMessage, zap.Error(err))
		message = internalMessage
	}
	s.respondMessage(w, status, message)
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, database.ErrUserNotFound):
		return http.StatusNotFound, "User not found."
	case errors.Is(err, database.ErrEmailTaken):
		return http.StatusConflict, "User already exists."
	case errors.Is(err, database.ErrGroceryNotFound):
		return http.StatusNotFound, "Grocery not found."
	case errors.Is(err, database.ErrGroceryInUse):
		return http.StatusConflict, "Grocery is referenced by existing orders."
	case errors.Is(err, database.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found."
	case errors.Is(err, database.ErrOrderNotOwned):
		return http.StatusForbidden, "You can only cancel your own orders."
	case errors.Is(err, database.ErrOrderNotPending):
		return http.StatusBadRequest, "Only pending orders can be modified."
	case errors.Is(err, database.ErrInsufficientStock):
		return http.StatusBadRequest, "Insufficient stock."
	}
	return http.StatusInternalServerError, ""
}
