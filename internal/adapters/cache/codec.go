package cache

import (
	"encoding/json"
	"trip-planner-service/internal/domain"

	"github.com/rotisserie/eris"
)

type signalsPayload struct {
	WeatherFavorable   bool     `json:"weather_favorable"`
	PopularPOIs        []string `json:"popular_pois"`
	PopularRestaurants []string `json:"popular_restaurants"`
}

func encodeSignals(s domain.Signals) ([]byte, error) {
	b, err := json.Marshal(signalsPayload{
		WeatherFavorable:   s.WeatherFavorable,
		PopularPOIs:        s.PopularPOIs,
		PopularRestaurants: s.PopularRestaurants,
	})
	if err != nil {
		return nil, eris.Wrap(err, "encode signals")
	}
	return b, nil
}

func decodeSignals(b []byte) (domain.Signals, error) {
	var p signalsPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.Signals{}, eris.Wrap(err, "decode signals")
	}
	return domain.Signals{
		WeatherFavorable:   p.WeatherFavorable,
		PopularPOIs:        p.PopularPOIs,
		PopularRestaurants: p.PopularRestaurants,
	}, nil
}
