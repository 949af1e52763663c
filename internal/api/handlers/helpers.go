package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"trip-planner-service/internal/domain"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// statusFor maps planning failures to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidDuration), errors.Is(err, domain.ErrInvalidPreferences):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnknownZone):
		return http.StatusNotFound, "unknown zone"
	case errors.Is(err, domain.ErrNoPOICandidates):
		return http.StatusUnprocessableEntity, "no points of interest near this zone"
	case errors.Is(err, domain.ErrCollaboratorsUnavailable):
		return http.StatusServiceUnavailable, "candidate and signal sources unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
