package services

import (
	"strings"
	"trip-planner-service/internal/domain"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Weights applied to each scoring signal. All must be non-negative.
type Weights struct {
	Preference float64
	Popularity float64
	Weather    float64
	Rating     float64
	Hiking     float64
}

func DefaultWeights() Weights {
	return Weights{Preference: 10, Popularity: 10, Weather: 10, Rating: 10, Hiking: 10}
}

type ScorerConfig struct {
	Weights             Weights
	SimilarityThreshold float64
}

func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{Weights: DefaultWeights(), SimilarityThreshold: 0.55}
}

func (c ScorerConfig) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"preference": w.Preference,
		"popularity": w.Popularity,
		"weather":    w.Weather,
		"rating":     w.Rating,
		"hiking":     w.Hiking,
	} {
		if v < 0 {
			return eris.Errorf("scorer config: %s weight must be non-negative, got %v", name, v)
		}
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return eris.Errorf("scorer config: similarity threshold must be in (0, 1], got %v", c.SimilarityThreshold)
	}
	return nil
}

var (
	indoorTags = map[string]bool{
		"museum": true, "gallery": true, "art gallery": true, "church": true, "cathedral": true,
		"theatre": true, "theater": true, "cinema": true, "aquarium": true, "library": true,
		"shopping": true, "exhibition": true, "planetarium": true, "wine cellar": true,
	}
	outdoorTags = map[string]bool{
		"park": true, "garden": true, "beach": true, "viewpoint": true, "zoo": true,
		"monument": true, "square": true, "lake": true, "bridge": true, "nature": true,
		"hiking": true, "vineyard": true, "castle ruins": true, "market": true,
	}
)

// Scorer assigns a desirability score to candidate stops.
type Scorer struct {
	cfg    ScorerConfig
	logger *zap.Logger
}

func NewScorer(cfg ScorerConfig, logger *zap.Logger) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Scorer{cfg: cfg, logger: logger.Named("scorer")}, nil
}

// Score computes the stop's score without mutating it. The result is never
// below domain.BaselineScore.
func (s *Scorer) Score(stop *domain.Stop, prefs domain.Preferences, signals domain.Signals) (float64, error) {
	if err := stop.Validate(); err != nil {
		return domain.BaselineScore, eris.Wrap(err, "score stop")
	}

	w := s.cfg.Weights
	score := domain.BaselineScore
	tags := stop.AllTags()

	switch stop.Kind {
	case domain.KindPOI:
		score += w.Preference * preferenceMatch(stop.TypeTags(), prefs.POITypes)
		score += w.Preference * preferenceMatch(stop.ThemeTags(), prefs.POIThemes)
		score += w.Popularity * s.popularityMatch(stop.Name, signals.PopularPOIs)
		if prefs.WeatherSensitive {
			score += w.Weather * weatherMatch(tags, signals.WeatherFavorable)
		}
	case domain.KindRestaurant:
		score += w.Preference * preferenceMatch(tags, prefs.RestaurantCategories)
		score += w.Popularity * s.popularityMatch(stop.Name, signals.PopularRestaurants)
	case domain.KindHosting:
		score += w.Preference * preferenceMatch(tags, prefs.HostingCategories)
	case domain.KindTrail:
		score += w.Hiking * prefs.DaysOnHiking
	}

	minimal := prefs.MinimalRating
	if minimal == 0 {
		minimal = domain.DefaultMinimalRating
	}
	if stop.Rating != nil && *stop.Rating > minimal {
		score += w.Rating * (*stop.Rating - minimal)
	}

	return score, nil
}

// ScoreAll writes a score on every stop. Malformed stops are logged, keep
// the baseline score, and are reported as warnings.
func (s *Scorer) ScoreAll(stops []*domain.Stop, prefs domain.Preferences, signals domain.Signals) []domain.Warning {
	var warnings []domain.Warning
	for _, stop := range stops {
		score, err := s.Score(stop, prefs, signals)
		if err != nil {
			id := ""
			if stop != nil {
				id = stop.ID
			}
			s.logger.Warn("malformed stop, keeping baseline score", zap.String("stop_id", id), zap.Error(err))
			warnings = append(warnings, domain.Warning{Kind: domain.WarningMalformedStop, Message: err.Error()})
			if stop != nil {
				stop.Score = domain.BaselineScore
			}
			continue
		}
		stop.Score = score
	}
	return warnings
}

// preferenceMatch sums (len-index) over every tag found in the ordered
// preference list, so earlier preferences weigh more.
func preferenceMatch(tags []string, prefs []string) float64 {
	if len(prefs) == 0 {
		return 0
	}
	index := make(map[string]int, len(prefs))
	for i, p := range prefs {
		p = strings.ToLower(strings.TrimSpace(p))
		if _, ok := index[p]; !ok {
			index[p] = i
		}
	}

	total := 0.0
	for _, t := range tags {
		if i, ok := index[t]; ok {
			total += float64(len(prefs) - i)
		}
	}
	return total
}

// popularityMatch returns (len-index) for the first popular name similar
// enough to name, or 0.
func (s *Scorer) popularityMatch(name string, popular []string) float64 {
	for i, p := range popular {
		if tokenSetSimilarity(name, p) >= s.cfg.SimilarityThreshold {
			return float64(len(popular) - i)
		}
	}
	return 0
}

// weatherMatch is 1 when the stop suits the forecast: outdoor under good
// weather, indoor under bad weather.
func weatherMatch(tags []string, favorable bool) float64 {
	for _, t := range tags {
		if favorable && outdoorTags[t] {
			return 1
		}
		if !favorable && indoorTags[t] {
			return 1
		}
	}
	return 0
}
