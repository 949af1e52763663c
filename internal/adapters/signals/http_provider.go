package signals

import (
	"context"
	"net/http"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type HTTPConfig struct {
	WeatherBaseURL    string
	WeatherAPIKey     string
	PlacesBaseURL     string
	PlacesAPIKey      string
	Country           string
	PopularLimit      int
	RequestsPerSecond float64
	Timeout           time.Duration
}

func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		WeatherBaseURL:    "https://api.openweathermap.org",
		PlacesBaseURL:     "https://api.foursquare.com",
		Country:           "FR",
		PopularLimit:      25,
		RequestsPerSecond: 5,
		Timeout:           10 * time.Second,
	}
}

// HTTPProvider implements SignalProvider against a daily forecast API and a
// places API sorted by popularity.
//
// A failing forecast degrades to "favorable"; a failing places call fails
// the whole fetch. The provider is safe for concurrent use.
type HTTPProvider struct {
	session     *http.Client
	cfg         HTTPConfig
	limiter     *rate.Limiter
	backoff     time.Duration
	maxAttempts int
	logger      *zap.Logger
}

var _ ports.SignalProvider = (*HTTPProvider)(nil)

func NewHTTPProvider(cfg HTTPConfig, logger *zap.Logger) (*HTTPProvider, error) {
	if strings.TrimSpace(cfg.PlacesAPIKey) == "" {
		return nil, eris.New("signals provider: places api key is empty")
	}
	if cfg.WeatherBaseURL == "" || cfg.PlacesBaseURL == "" {
		return nil, eris.New("signals provider: base urls must be set")
	}
	if cfg.PopularLimit <= 0 {
		cfg.PopularLimit = 25
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.L()
	}

	cfg.WeatherBaseURL = strings.TrimRight(cfg.WeatherBaseURL, "/")
	cfg.PlacesBaseURL = strings.TrimRight(cfg.PlacesBaseURL, "/")

	return &HTTPProvider{
		session:     &http.Client{Timeout: cfg.Timeout},
		cfg:         cfg,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		backoff:     200 * time.Millisecond,
		maxAttempts: 4,
		logger:      logger.Named("signals"),
	}, nil
}

func (p *HTTPProvider) FetchSignals(ctx context.Context, req ports.SignalRequest) (domain.Signals, error) {
	zone := strings.TrimSpace(req.Zone)
	if zone == "" {
		return domain.Signals{}, eris.New("fetch signals: zone must not be empty")
	}

	out := domain.Signals{WeatherFavorable: true}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		favorable, err := p.fetchWeather(gctx, zone, req.Start, req.Days)
		if err != nil {
			p.logger.Warn("weather unavailable, assuming favorable", zap.String("zone", zone), zap.Error(err))
			return nil
		}
		out.WeatherFavorable = favorable
		return nil
	})
	g.Go(func() (err error) {
		out.PopularPOIs, err = p.fetchPopular(gctx, zone, categoryArtsAndLandmarks)
		return err
	})
	g.Go(func() (err error) {
		out.PopularRestaurants, err = p.fetchPopular(gctx, zone, categoryDining)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Signals{}, eris.Wrap(err, "fetch signals")
	}
	return out, nil
}
