package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Signals    SignalsConfig    `yaml:"signals" mapstructure:"signals"`
	Planner    PlannerConfig    `yaml:"planner" mapstructure:"planner"`
	Repository RepositoryConfig `yaml:"repository" mapstructure:"repository"`
}

// StoreConfig selects the candidate store. Driver is "sqlite" or "postgres".
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	SeedPath    string `yaml:"seed_path" mapstructure:"seed_path"`
}

type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RedisConfig enables the Redis signal cache when URL is set.
type RedisConfig struct {
	URL      string `yaml:"url" mapstructure:"url"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

type SignalsConfig struct {
	WeatherBaseURL    string  `yaml:"weather_base_url" mapstructure:"weather_base_url"`
	WeatherAPIKey     string  `yaml:"weather_api_key" mapstructure:"weather_api_key"`
	PlacesBaseURL     string  `yaml:"places_base_url" mapstructure:"places_base_url"`
	PlacesAPIKey      string  `yaml:"places_api_key" mapstructure:"places_api_key"`
	Country           string  `yaml:"country" mapstructure:"country"`
	PopularLimit      int     `yaml:"popular_limit" mapstructure:"popular_limit"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// PlannerConfig tunes the synthesis engine. Radii are in meters.
type PlannerConfig struct {
	Seed                uint64        `yaml:"seed" mapstructure:"seed"`
	MaxPOIsPerDay       int           `yaml:"max_pois_per_day" mapstructure:"max_pois_per_day"`
	SearchInitialRadius float64       `yaml:"search_initial_radius" mapstructure:"search_initial_radius"`
	SearchStep          float64       `yaml:"search_step" mapstructure:"search_step"`
	SearchMaxRadius     float64       `yaml:"search_max_radius" mapstructure:"search_max_radius"`
	SearchMinCandidates int           `yaml:"search_min_candidates" mapstructure:"search_min_candidates"`
	SimilarityThreshold float64       `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	WalkingRadiusKm     float64       `yaml:"walking_radius_km" mapstructure:"walking_radius_km"`
	DrivingRadiusKm     float64       `yaml:"driving_radius_km" mapstructure:"driving_radius_km"`
	Weights             WeightsConfig `yaml:"weights" mapstructure:"weights"`
}

type WeightsConfig struct {
	Preference float64 `yaml:"preference" mapstructure:"preference"`
	Popularity float64 `yaml:"popularity" mapstructure:"popularity"`
	Weather    float64 `yaml:"weather" mapstructure:"weather"`
	Rating     float64 `yaml:"rating" mapstructure:"rating"`
	Hiking     float64 `yaml:"hiking" mapstructure:"hiking"`
}

// RepositoryConfig drives the candidate lookup widening.
type RepositoryConfig struct {
	MinPOIPerDay        int     `yaml:"min_poi_per_day" mapstructure:"min_poi_per_day"`
	MinRestaurantPerDay int     `yaml:"min_restaurant_per_day" mapstructure:"min_restaurant_per_day"`
	MinHostingPerDay    int     `yaml:"min_hosting_per_day" mapstructure:"min_hosting_per_day"`
	MinTrailPerDay      int     `yaml:"min_trail_per_day" mapstructure:"min_trail_per_day"`
	MaxLookupIterations int     `yaml:"max_lookup_iterations" mapstructure:"max_lookup_iterations"`
	RadiusStepKm        float64 `yaml:"radius_step_km" mapstructure:"radius_step_km"`
}

// Load reads .env (if any), config.yaml (if any) and PLANNER_* environment
// variables, in increasing precedence.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "data/app.db")
	v.SetDefault("store.seed_path", "data/seeds/bordeaux.yaml")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl_hours", 6)
	v.SetDefault("signals.weather_base_url", "https://api.openweathermap.org")
	v.SetDefault("signals.weather_api_key", "")
	v.SetDefault("signals.places_base_url", "https://api.foursquare.com")
	v.SetDefault("signals.places_api_key", "")
	v.SetDefault("signals.country", "FR")
	v.SetDefault("signals.popular_limit", 25)
	v.SetDefault("signals.requests_per_second", 5)
	v.SetDefault("signals.timeout_secs", 10)
	v.SetDefault("planner.seed", 42)
	v.SetDefault("planner.max_pois_per_day", 4)
	v.SetDefault("planner.search_initial_radius", 200)
	v.SetDefault("planner.search_step", 100)
	v.SetDefault("planner.search_max_radius", 20000)
	v.SetDefault("planner.search_min_candidates", 3)
	v.SetDefault("planner.similarity_threshold", 0.55)
	v.SetDefault("planner.walking_radius_km", 5)
	v.SetDefault("planner.driving_radius_km", 100)
	v.SetDefault("planner.weights.preference", 10)
	v.SetDefault("planner.weights.popularity", 10)
	v.SetDefault("planner.weights.weather", 10)
	v.SetDefault("planner.weights.rating", 10)
	v.SetDefault("planner.weights.hiking", 10)
	v.SetDefault("repository.min_poi_per_day", 4)
	v.SetDefault("repository.min_restaurant_per_day", 2)
	v.SetDefault("repository.min_hosting_per_day", 1)
	v.SetDefault("repository.min_trail_per_day", 2)
	v.SetDefault("repository.max_lookup_iterations", 5)
	v.SetDefault("repository.radius_step_km", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints viper cannot express.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLitePath == "" {
			return eris.New("config: store.sqlite_path is required for sqlite")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return eris.New("config: store.database_url is required for postgres")
		}
	default:
		return eris.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	return nil
}

// InitLogger installs the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
