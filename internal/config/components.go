package config

import (
	"time"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/adapters/signals"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

// Engine maps the planner section onto the synthesis engine settings.
func (c PlannerConfig) Engine() services.EngineConfig {
	return services.EngineConfig{
		Seed: c.Seed,
		Scorer: services.ScorerConfig{
			Weights: services.Weights{
				Preference: c.Weights.Preference,
				Popularity: c.Weights.Popularity,
				Weather:    c.Weights.Weather,
				Rating:     c.Weights.Rating,
				Hiking:     c.Weights.Hiking,
			},
			SimilarityThreshold: c.SimilarityThreshold,
		},
		Route: services.RouteConfig{
			MaxPOIsPerDay: c.MaxPOIsPerDay,
			Search: services.SearchConfig{
				InitialRadius: c.SearchInitialRadius,
				Step:          c.SearchStep,
				MaxRadius:     c.SearchMaxRadius,
				MinCandidates: c.SearchMinCandidates,
			},
		},
	}
}

func (c PlannerConfig) Radii() services.PlannerConfig {
	return services.PlannerConfig{WalkingRadiusKm: c.WalkingRadiusKm, DrivingRadiusKm: c.DrivingRadiusKm}
}

func (c RepositoryConfig) Widen() repositories.WidenConfig {
	return repositories.WidenConfig{
		MinPerDay: map[domain.Kind]int{
			domain.KindPOI:        c.MinPOIPerDay,
			domain.KindRestaurant: c.MinRestaurantPerDay,
			domain.KindHosting:    c.MinHostingPerDay,
			domain.KindTrail:      c.MinTrailPerDay,
		},
		MaxLookupIterations: c.MaxLookupIterations,
		RadiusStepKm:        c.RadiusStepKm,
	}
}

func (c SignalsConfig) HTTP() signals.HTTPConfig {
	return signals.HTTPConfig{
		WeatherBaseURL:    c.WeatherBaseURL,
		WeatherAPIKey:     c.WeatherAPIKey,
		PlacesBaseURL:     c.PlacesBaseURL,
		PlacesAPIKey:      c.PlacesAPIKey,
		Country:           c.Country,
		PopularLimit:      c.PopularLimit,
		RequestsPerSecond: c.RequestsPerSecond,
		Timeout:           time.Duration(c.TimeoutSecs) * time.Second,
	}
}

func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}
