package services

import (
	"sort"
	"trip-planner-service/internal/domain"
)

// DefaultMaxPOIsPerDay caps how many points of interest a single day visits.
const DefaultMaxPOIsPerDay = 4

// SelectTopPointsByDay keeps, for every cluster in [0, dayCount), the
// maxPerDay highest-scoring POIs. The result is ordered by cluster, then by
// descending score. POIs outside [0, dayCount) are dropped.
func SelectTopPointsByDay(pois []*domain.Stop, dayCount, maxPerDay int) []*domain.Stop {
	if maxPerDay < 1 {
		maxPerDay = DefaultMaxPOIsPerDay
	}

	byCluster := make(map[int][]*domain.Stop)
	for _, p := range pois {
		if p.Cluster < 0 || p.Cluster >= dayCount {
			continue
		}
		byCluster[p.Cluster] = append(byCluster[p.Cluster], p)
	}

	selected := []*domain.Stop{}
	for c := 0; c < dayCount; c++ {
		group := byCluster[c]
		sortByScore(group)
		if len(group) > maxPerDay {
			group = group[:maxPerDay]
		}
		selected = append(selected, group...)
	}
	return selected
}

// sortByScore orders stops by descending score; ties go to the smaller id.
func sortByScore(stops []*domain.Stop) {
	sort.SliceStable(stops, func(i, j int) bool {
		if stops[i].Score != stops[j].Score {
			return stops[i].Score > stops[j].Score
		}
		return stops[i].ID < stops[j].ID
	})
}
