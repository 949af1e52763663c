package signals

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var tripStart = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func day(offset int, code int, feelsLike float64) string {
	dt := tripStart.AddDate(0, 0, offset).Add(12 * time.Hour).Unix()
	return fmt.Sprintf(`{"dt": %d, "feels_like": {"day": %v}, "weather": [{"id": %d}]}`, dt, feelsLike, code)
}

type fakeAPI struct {
	forecast      string
	weatherStatus int
	weatherCalls  int32
	placesFails   int32
	placesCalls   int32
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/2.5/forecast/daily", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "33000,FR", r.URL.Query().Get("zip"))
		atomic.AddInt32(&f.weatherCalls, 1)
		if f.weatherStatus != 0 {
			w.WriteHeader(f.weatherStatus)
			return
		}
		fmt.Fprintf(w, `{"list": [%s]}`, f.forecast)
	})
	mux.HandleFunc("/v3/places/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		assert.Equal(t, "POPULARITY", r.URL.Query().Get("sort"))
		if atomic.AddInt32(&f.placesCalls, 1) <= f.placesFails {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.URL.Query().Get("categories") == categoryDining {
			fmt.Fprint(w, `{"results": [{"name": "Le Petit Commerce"}, {"name": " "}]}`)
			return
		}
		fmt.Fprint(w, `{"results": [{"name": "La Cité du Vin"}, {"name": "Miroir d'eau"}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T, srv *httptest.Server) *HTTPProvider {
	t.Helper()
	cfg := DefaultHTTPConfig()
	cfg.WeatherBaseURL = srv.URL
	cfg.PlacesBaseURL = srv.URL + "/"
	cfg.PlacesAPIKey = "secret"
	cfg.RequestsPerSecond = 1000

	p, err := NewHTTPProvider(cfg, zap.NewNop())
	require.NoError(t, err)
	p.backoff = time.Millisecond
	return p
}

func TestFetchSignals(t *testing.T) {
	api := &fakeAPI{forecast: day(0, 800, 22) + "," + day(1, 801, 18) + "," + day(5, 200, 15)}
	p := newTestProvider(t, api.server(t))

	s, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 2})
	require.NoError(t, err)

	assert.True(t, s.WeatherFavorable, "the storm on day 5 is outside the trip")
	assert.Equal(t, []string{"la cité du vin", "miroir d'eau"}, s.PopularPOIs)
	assert.Equal(t, []string{"le petit commerce"}, s.PopularRestaurants)
}

func TestFetchSignalsBadWeather(t *testing.T) {
	api := &fakeAPI{forecast: day(0, 800, 22) + "," + day(1, 502, 12)}
	p := newTestProvider(t, api.server(t))

	s, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 2})
	require.NoError(t, err)
	assert.False(t, s.WeatherFavorable)
}

func TestFetchSignalsWeatherOutageDefaultsToFavorable(t *testing.T) {
	api := &fakeAPI{weatherStatus: http.StatusUnauthorized}
	p := newTestProvider(t, api.server(t))

	s, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 2})
	require.NoError(t, err)
	assert.True(t, s.WeatherFavorable)
}

func TestFetchSignalsDoesNotRetryClientErrors(t *testing.T) {
	api := &fakeAPI{weatherStatus: http.StatusUnauthorized}
	p := newTestProvider(t, api.server(t))

	_, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.weatherCalls))
}

func TestFetchSignalsRetryStopsOnCancel(t *testing.T) {
	api := &fakeAPI{forecast: day(0, 800, 20), placesFails: 100}
	p := newTestProvider(t, api.server(t))
	p.backoff = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.FetchSignals(ctx, ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 1})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchSignalsRetriesTransientErrors(t *testing.T) {
	api := &fakeAPI{forecast: day(0, 800, 20), placesFails: 2}
	p := newTestProvider(t, api.server(t))

	_, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&api.placesCalls))
}

func TestFetchSignalsPlacesOutageFails(t *testing.T) {
	api := &fakeAPI{forecast: day(0, 800, 20), placesFails: 100}
	p := newTestProvider(t, api.server(t))

	_, err := p.FetchSignals(context.Background(), ports.SignalRequest{Zone: "33000", Start: tripStart, Days: 1})
	require.Error(t, err)

	var he *httpStatusError
	assert.ErrorAs(t, err, &he)
}

func TestNewHTTPProviderRequiresKey(t *testing.T) {
	_, err := NewHTTPProvider(DefaultHTTPConfig(), nil)
	assert.Error(t, err)
}

func TestForecastDayFavorable(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		feelsLike float64
		want      bool
	}{
		{"clear and mild", 800, 20, true},
		{"cloudy lower bound", 804, 10, true},
		{"clear but hot", 800, 31, false},
		{"clear but cold", 800, 5, false},
		{"light rain", 500, 5, true},
		{"heavy rain", 502, 20, false},
		{"thunderstorm", 211, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := forecastDay{}
			d.FeelsLike.Day = tt.feelsLike
			d.Weather = append(d.Weather, struct {
				ID int `json:"id"`
			}{ID: tt.code})
			assert.Equal(t, tt.want, d.favorable())
		})
	}
}

func TestWindowFavorableWithoutData(t *testing.T) {
	assert.True(t, windowFavorable(nil, tripStart, 3))
}
