package signals

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"trip-planner-service/internal/platform/obs"

	"github.com/rotisserie/eris"
)

// Condition code for light rain, still considered good enough to go out.
const lightRainCode = 500

type forecastResponse struct {
	List []forecastDay `json:"list"`
}

type forecastDay struct {
	Dt        int64 `json:"dt"`
	FeelsLike struct {
		Day float64 `json:"day"`
	} `json:"feels_like"`
	Weather []struct {
		ID int `json:"id"`
	} `json:"weather"`
}

func (d forecastDay) date() time.Time {
	return time.Unix(d.Dt, 0).UTC().Truncate(24 * time.Hour)
}

// favorable: clear or cloudy (code >= 800) with a felt temperature in
// [10, 30] C, or light rain.
func (d forecastDay) favorable() bool {
	if len(d.Weather) == 0 {
		return true
	}
	code := d.Weather[0].ID
	if code == lightRainCode {
		return true
	}
	return code >= 800 && d.FeelsLike.Day >= 10 && d.FeelsLike.Day <= 30
}

// windowFavorable is true when every forecast day inside [start, start+days)
// is favorable. Days without forecast data count as favorable.
func windowFavorable(days []forecastDay, start time.Time, n int) bool {
	from := start.UTC().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, n)
	for _, d := range days {
		at := d.date()
		if at.Before(from) || !at.Before(to) {
			continue
		}
		if !d.favorable() {
			return false
		}
	}
	return true
}

func (p *HTTPProvider) fetchWeather(ctx context.Context, zone string, start time.Time, n int) (_ bool, err error) {
	defer obs.Time(ctx, "signals.weather")(&err)

	endpoint := p.cfg.WeatherBaseURL + "/data/2.5/forecast/daily"
	query := map[string]string{
		"zip":   zone + "," + p.cfg.Country,
		"cnt":   "16",
		"units": "metric",
		"appid": p.cfg.WeatherAPIKey,
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, endpoint, "", query)
	})
	if err != nil {
		return true, eris.Wrap(err, "fetch weather")
	}
	defer resp.Body.Close()

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return true, eris.Wrap(err, "decode weather response")
	}

	return windowFavorable(decoded.List, start, n), nil
}
