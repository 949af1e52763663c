package domain

// Candidate stops available around a zone, one list per kind.
type CandidatePool struct {
	Zone         string
	City         string
	POIs         []*Stop
	Restaurants  []*Stop
	Hostings     []*Stop
	Trails       []*Stop
	Conveniences []*Stop
}

// Add appends s to the list matching its kind. Unknown kinds are ignored.
func (p *CandidatePool) Add(s *Stop) {
	switch s.Kind {
	case KindPOI:
		p.POIs = append(p.POIs, s)
	case KindRestaurant:
		p.Restaurants = append(p.Restaurants, s)
	case KindHosting:
		p.Hostings = append(p.Hostings, s)
	case KindTrail:
		p.Trails = append(p.Trails, s)
	case KindConvenience:
		p.Conveniences = append(p.Conveniences, s)
	}
}

// All returns every candidate, grouped by kind.
func (p *CandidatePool) All() []*Stop {
	out := make([]*Stop, 0, p.Len())
	out = append(out, p.POIs...)
	out = append(out, p.Restaurants...)
	out = append(out, p.Hostings...)
	out = append(out, p.Trails...)
	out = append(out, p.Conveniences...)
	return out
}

func (p *CandidatePool) Len() int {
	return len(p.POIs) + len(p.Restaurants) + len(p.Hostings) + len(p.Trails) + len(p.Conveniences)
}

// Count returns the number of candidates of kind k.
func (p *CandidatePool) Count(k Kind) int {
	switch k {
	case KindPOI:
		return len(p.POIs)
	case KindRestaurant:
		return len(p.Restaurants)
	case KindHosting:
		return len(p.Hostings)
	case KindTrail:
		return len(p.Trails)
	case KindConvenience:
		return len(p.Conveniences)
	}
	return 0
}

// Clone deep-copies the pool so the pipeline never mutates caller data.
func (p *CandidatePool) Clone() *CandidatePool {
	c := &CandidatePool{Zone: p.Zone, City: p.City}
	for _, s := range p.All() {
		c.Add(s.Clone())
	}
	return c
}
