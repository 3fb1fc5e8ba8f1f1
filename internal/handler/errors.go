package handler

import (
	"net/http"

	"github.com/kiwari-pos/dinein/internal/service"
	"go.uber.org/zap"
)

// errorResponse carries the stable kind for clients to branch on and a
// human-readable message.
type errorResponse struct {
	Error   service.ErrorKind `json:"error"`
	Message string            `json:"message"`
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidTransition, service.KindAlreadyFinalized,
		service.KindTableOccupied, service.KindNoChange:
		return http.StatusConflict
	case service.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps a service error to its HTTP status. Infrastructure
// failures are logged and their details kept out of the response.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	kind := service.KindOf(err)
	status := statusForKind(kind)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error(op, zap.String("error_kind", string(kind)), zap.Error(err))
		msg = "service temporarily unavailable"
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}

func writeValidation(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: service.KindValidation, Message: msg})
}
