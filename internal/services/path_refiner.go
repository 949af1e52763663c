package services

import (
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// allowedTransitions are the "visit next" links the refiner keeps as edges.
var allowedTransitions = map[[2]domain.Kind]bool{
	{domain.KindPOI, domain.KindPOI}:            true,
	{domain.KindPOI, domain.KindRestaurant}:     true,
	{domain.KindRestaurant, domain.KindPOI}:     true,
	{domain.KindPOI, domain.KindHosting}:        true,
	{domain.KindHosting, domain.KindPOI}:        true,
	{domain.KindRestaurant, domain.KindHosting}: true,
}

// PathRefiner re-derives (day, rank) labels from a shortest path over the
// builder's transitions, weighted by great-circle distance.
type PathRefiner struct {
	newGraph func() ports.Graph
	logger   *zap.Logger
}

func NewPathRefiner(newGraph func() ports.Graph, logger *zap.Logger) *PathRefiner {
	if logger == nil {
		logger = zap.L()
	}
	return &PathRefiner{newGraph: newGraph, logger: logger.Named("path_refiner")}
}

// Refine returns the stops in path order with relabelled day and rank, and
// whether refinement succeeded. Stops after the last POI keep their order
// and continue the final day's ranks.
//
// When the graph cannot be built or holds no path covering every stop up to
// the last POI, the builder's ordering is returned untouched along with a
// refinement_skipped warning.
func (r *PathRefiner) Refine(stops []*domain.Stop) ([]*domain.Stop, bool, []domain.Warning) {
	lastPOI := -1
	for i, s := range stops {
		if s.Kind == domain.KindPOI {
			lastPOI = i
		}
	}
	if lastPOI < 0 {
		return stops, false, nil
	}

	path, err := r.shortestPath(stops[:lastPOI+1])
	if err != nil {
		r.logger.Warn("path refinement skipped", zap.Error(err))
		return stops, false, []domain.Warning{{
			Kind:    domain.WarningRefinementSkipped,
			Message: err.Error(),
		}}
	}

	byID := make(map[string]*domain.Stop, len(stops))
	for _, s := range stops {
		byID[s.ID] = s
	}

	ordered := make([]*domain.Stop, 0, len(stops))
	for _, id := range path {
		ordered = append(ordered, byID[id])
	}
	ordered = append(ordered, stops[lastPOI+1:]...)

	relabel(ordered)
	return ordered, true, nil
}

func (r *PathRefiner) shortestPath(chain []*domain.Stop) ([]string, error) {
	if r.newGraph == nil {
		return nil, eris.New("refine path: no graph backend")
	}
	g := r.newGraph()

	for _, s := range chain {
		if err := g.AddNode(s.ID); err != nil {
			return nil, eris.Wrapf(err, "refine path: add node %s", s.ID)
		}
	}
	for i := 0; i+1 < len(chain); i++ {
		from, to := chain[i], chain[i+1]
		if !allowedTransitions[[2]domain.Kind{from.Kind, to.Kind}] {
			r.logger.Debug("dropping transition", zap.String("from", from.ID), zap.String("to", to.ID))
			continue
		}
		w := from.Coordinates.DistanceMeters(to.Coordinates)
		if err := g.AddWeightedEdge(from.ID, to.ID, w); err != nil {
			return nil, eris.Wrapf(err, "refine path: add edge %s->%s", from.ID, to.ID)
		}
	}

	first, last := chain[0].ID, chain[len(chain)-1].ID
	path, err := g.ShortestPath(first, last)
	if err != nil {
		return nil, eris.Wrap(err, "refine path")
	}
	if len(path) != len(chain) {
		return nil, eris.Errorf("refine path: path visits %d of %d stops", len(path), len(chain))
	}
	return path, nil
}

// relabel walks the stops in order. Leaving a lodging starts a new day, and
// so does a rise in the incoming day label, which covers a day the builder
// closed without lodging. Any other step increments the rank.
func relabel(stops []*domain.Stop) {
	day, rank := 1, 0
	prevLabel := 0
	for i, s := range stops {
		label := s.Day
		if i > 0 && (stops[i-1].Kind == domain.KindHosting || label > prevLabel) {
			day++
			rank = 0
		}
		prevLabel = label
		rank++
		s.Day = day
		s.Rank = rank
	}
}
