package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"trip-planner-service/internal/adapters/geojson"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"

	"go.uber.org/zap"
)

type TripPlanner interface {
	PlanTrip(ctx context.Context, prefs domain.Preferences) (*domain.Itinerary, error)
}

type ItineraryHandler struct {
	Planner TripPlanner
}

// Create synthesizes an itinerary. ?format=geojson returns a FeatureCollection
// instead of the day-grouped JSON.
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	prefs, err := req.Preferences()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.Planner.PlanTrip(r.Context(), prefs)
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("plan trip failed", zap.String("zone", prefs.Zone), zap.Error(err))
		}
		writeError(w, r, status, msg)
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		b, err := geojson.Marshal(it)
		if err != nil {
			zap.L().Error("geojson encode failed", zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewItineraryResponse(prefs.Zone, it))
}
