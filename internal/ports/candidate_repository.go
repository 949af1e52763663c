package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// CandidateQuery selects the candidate stops around a zone.
type CandidateQuery struct {
	Zone     string
	RadiusKm float64
	Days     int
}

// CandidateRepository returns candidate stops around a zone, widening the
// search radius until enough candidates per day are available.
type CandidateRepository interface {
	FetchCandidates(ctx context.Context, q CandidateQuery) (*domain.CandidatePool, error)
}
