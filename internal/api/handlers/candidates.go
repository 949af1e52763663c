package handlers

import (
	"context"
	"net/http"
	"strconv"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CandidateLister interface {
	Candidates(ctx context.Context, q ports.CandidateQuery) (*domain.CandidatePool, error)
}

// CandidateHandler exposes the read-only candidate pool of a zone.
type CandidateHandler struct {
	Lister          CandidateLister
	DefaultRadiusKm float64
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	q := ports.CandidateQuery{
		Zone:     chi.URLParam(r, "zone"),
		RadiusKm: h.DefaultRadiusKm,
		Days:     1,
	}

	if v := r.URL.Query().Get("radius_km"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 || radius > 500 {
			writeError(w, r, http.StatusBadRequest, "radius_km must be a number in (0, 500]")
			return
		}
		q.RadiusKm = radius
	}
	if v := r.URL.Query().Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 || days > 30 {
			writeError(w, r, http.StatusBadRequest, "days must be between 1 and 30")
			return
		}
		q.Days = days
	}

	pool, err := h.Lister.Candidates(r.Context(), q)
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("list candidates failed", zap.String("zone", q.Zone), zap.Error(err))
		}
		writeError(w, r, status, msg)
		return
	}

	res := dto.CandidatesResponse{
		Zone:       pool.Zone,
		City:       pool.City,
		RadiusKm:   q.RadiusKm,
		Counts:     make(map[string]int, len(domain.Kinds)),
		Candidates: make([]dto.StopResponse, 0, pool.Len()),
	}
	for _, k := range domain.Kinds {
		res.Counts[string(k)] = pool.Count(k)
	}
	for _, s := range pool.All() {
		res.Candidates = append(res.Candidates, dto.NewStopResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}
