package geojson

import (
	"encoding/json"
	"strconv"
	"trip-planner-service/internal/domain"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection renders an itinerary as one Point feature per stop plus
// one LineString per day with at least two stops, in visit order.
func FeatureCollection(it *domain.Itinerary) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	if it == nil {
		return fc
	}

	for _, s := range it.Stops {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       s.ID,
			Geometry: geom.NewPointFlat(geom.XY, s.Coordinates.CoordsToList()),
			Properties: map[string]interface{}{
				"name":  s.Name,
				"kind":  string(s.Kind),
				"day":   s.Day,
				"rank":  s.Rank,
				"score": s.Score,
				"city":  s.Place.City,
			},
		})
	}

	for day := 1; day <= it.Days(); day++ {
		stops := it.Day(day)
		if len(stops) < 2 {
			continue
		}
		flat := make([]float64, 0, len(stops)*2)
		for _, s := range stops {
			flat = append(flat, s.Coordinates.Lon, s.Coordinates.Lat)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       "day-" + strconv.Itoa(day),
			Geometry: geom.NewLineStringFlat(geom.XY, flat),
			Properties: map[string]interface{}{
				"kind": "route",
				"day":  day,
			},
		})
	}

	return fc
}

// Marshal encodes the itinerary's feature collection.
func Marshal(it *domain.Itinerary) ([]byte, error) {
	b, err := json.Marshal(FeatureCollection(it))
	if err != nil {
		return nil, eris.Wrap(err, "geojson: marshal itinerary")
	}
	return b, nil
}
