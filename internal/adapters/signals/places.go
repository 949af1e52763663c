package signals

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"trip-planner-service/internal/platform/obs"

	"github.com/rotisserie/eris"
)

// Places API category groups.
const (
	categoryArtsAndLandmarks = "10000,16000"
	categoryDining           = "13065"
)

type placesResponse struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// fetchPopular returns place names near the zone ordered by popularity,
// lower-cased.
func (p *HTTPProvider) fetchPopular(ctx context.Context, zone, categories string) (_ []string, err error) {
	defer obs.Time(ctx, "signals.places")(&err)

	endpoint := p.cfg.PlacesBaseURL + "/v3/places/search"
	query := map[string]string{
		"near":       zone + ", " + p.cfg.Country,
		"categories": categories,
		"sort":       "POPULARITY",
		"limit":      strconv.Itoa(p.cfg.PopularLimit),
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, endpoint, p.cfg.PlacesAPIKey, query)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "fetch popular places categories=%s", categories)
	}
	defer resp.Body.Close()

	var decoded placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, eris.Wrap(err, "decode places response")
	}

	names := make([]string, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		if n := strings.ToLower(strings.TrimSpace(r.Name)); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}
