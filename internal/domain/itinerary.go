package domain

import (
	"fmt"
	"sort"
)

// WarningKind classifies a non-fatal planning condition.
type WarningKind string

const (
	WarningMissingLunch      WarningKind = "missing_lunch"
	WarningMissingDinner     WarningKind = "missing_dinner"
	WarningMissingLodging    WarningKind = "missing_lodging"
	WarningRefinementSkipped WarningKind = "refinement_skipped"
	WarningSignalsDegraded   WarningKind = "signals_degraded"
	WarningMalformedStop     WarningKind = "malformed_stop"
)

// Non-fatal condition attached to an itinerary. Day is 0 when not day specific.
type Warning struct {
	Day     int
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	if w.Day > 0 {
		return fmt.Sprintf("day %d: %s: %s", w.Day, w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Represents a synthesized trip: every placed stop in visit order, grouped
// views per kind, and the warnings raised while building it.
type Itinerary struct {
	Stops    []*Stop
	Warnings []Warning
	Refined  bool
}

// ByKind returns the placed stops of kind k in visit order.
func (it *Itinerary) ByKind(k Kind) []*Stop {
	out := []*Stop{}
	for _, s := range it.Stops {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

// Days returns the number of distinct days in the itinerary.
func (it *Itinerary) Days() int {
	max := 0
	for _, s := range it.Stops {
		if s.Day > max {
			max = s.Day
		}
	}
	return max
}

// Day returns the stops of day d ordered by rank.
func (it *Itinerary) Day(d int) []*Stop {
	out := []*Stop{}
	for _, s := range it.Stops {
		if s.Day == d {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// Check verifies that every stop is placed, that (day, rank) pairs are
// unique, and that ranks are contiguous from 1 within each day.
func (it *Itinerary) Check() error {
	seen := make(map[[2]int]string)
	byDay := make(map[int][]int)
	for _, s := range it.Stops {
		if !s.Placed() {
			return fmt.Errorf("check itinerary: stop %s has no position", s.ID)
		}
		key := [2]int{s.Day, s.Rank}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("check itinerary: stops %s and %s share day %d rank %d", other, s.ID, s.Day, s.Rank)
		}
		seen[key] = s.ID
		byDay[s.Day] = append(byDay[s.Day], s.Rank)
	}

	for d := 1; d <= len(byDay); d++ {
		ranks, ok := byDay[d]
		if !ok {
			return fmt.Errorf("check itinerary: day %d missing", d)
		}
		sort.Ints(ranks)
		for i, r := range ranks {
			if r != i+1 {
				return fmt.Errorf("check itinerary: day %d ranks not contiguous at %d", d, r)
			}
		}
	}
	return nil
}
