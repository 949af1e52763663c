package repositories

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// WidenConfig controls how far the repository grows its radius per kind.
type WidenConfig struct {
	MinPerDay           map[domain.Kind]int
	MaxLookupIterations int
	RadiusStepKm        float64
}

func DefaultWidenConfig() WidenConfig {
	return WidenConfig{
		MinPerDay: map[domain.Kind]int{
			domain.KindPOI:        4,
			domain.KindRestaurant: 2,
			domain.KindHosting:    1,
			domain.KindTrail:      2,
		},
		MaxLookupIterations: 5,
		RadiusStepKm:        10,
	}
}

// SQLCandidateRepository implements ports.CandidateRepository over the
// zones and stops tables, for SQLite or Postgres.
type SQLCandidateRepository struct {
	DB      *sql.DB
	Dialect Dialect
	Widen   WidenConfig
	logger  *zap.Logger
}

var _ ports.CandidateRepository = (*SQLCandidateRepository)(nil)

func NewSqliteCandidateRepository(db *sql.DB, widen WidenConfig) *SQLCandidateRepository {
	return &SQLCandidateRepository{DB: db, Dialect: DialectSQLite, Widen: widen, logger: zap.L().Named("candidates")}
}

func NewPostgresCandidateRepository(db *sql.DB, widen WidenConfig) *SQLCandidateRepository {
	return &SQLCandidateRepository{DB: db, Dialect: DialectPostgres, Widen: widen, logger: zap.L().Named("candidates")}
}

// FetchCandidates looks up the zone centroid, then for each kind queries
// stops within RadiusKm, growing by RadiusStepKm until MinPerDay*Days stops
// are found or MaxLookupIterations is reached. Stops are ordered by
// distance to the centroid.
func (r *SQLCandidateRepository) FetchCandidates(ctx context.Context, q ports.CandidateQuery) (_ *domain.CandidatePool, err error) {
	defer obs.Time(ctx, "candidates.FetchCandidates")(&err)

	if r.DB == nil {
		return nil, eris.New("candidate repository: DB is nil")
	}
	zone := strings.TrimSpace(q.Zone)
	if zone == "" {
		return nil, eris.Wrap(domain.ErrUnknownZone, "fetch candidates: zone must not be empty")
	}
	if q.RadiusKm <= 0 {
		return nil, eris.Errorf("fetch candidates: radius must be positive, got %v", q.RadiusKm)
	}
	days := max(q.Days, 1)

	city, center, err := r.zone(ctx, zone)
	if err != nil {
		return nil, err
	}

	pool := &domain.CandidatePool{Zone: zone, City: city}
	iterations := max(r.Widen.MaxLookupIterations, 1)

	for _, kind := range domain.Kinds {
		want := r.Widen.MinPerDay[kind] * days

		var found []*domain.Stop
		radius := q.RadiusKm
		for i := 0; i < iterations; i++ {
			radius = q.RadiusKm + float64(i)*r.Widen.RadiusStepKm
			found, err = r.within(ctx, kind, center, radius)
			if err != nil {
				return nil, err
			}
			if len(found) >= want || r.Widen.RadiusStepKm <= 0 {
				break
			}
		}

		if len(found) < want {
			r.logger.Info("fewer candidates than wanted",
				zap.String("zone", zone), zap.String("kind", string(kind)),
				zap.Int("found", len(found)), zap.Int("wanted", want), zap.Float64("radius_km", radius))
		}
		for _, s := range found {
			pool.Add(s)
		}
	}

	return pool, nil
}

func (r *SQLCandidateRepository) zone(ctx context.Context, code string) (string, domain.Coordinates, error) {
	var city string
	var c domain.Coordinates

	query := `SELECT city, lon, lat FROM zones WHERE code = ` + r.Dialect.bind(1) + `;`
	err := r.DB.QueryRowContext(ctx, query, code).Scan(&city, &c.Lon, &c.Lat)
	if errors.Is(err, sql.ErrNoRows) {
		return "", c, eris.Wrapf(domain.ErrUnknownZone, "fetch candidates: zone %q", code)
	}
	if err != nil {
		return "", c, eris.Wrapf(err, "fetch candidates: query zone %q", code)
	}
	return city, c, nil
}

// within prefilters on a lat/lon bounding box in SQL, then keeps the rows
// whose great-circle distance to center is at most radiusKm.
func (r *SQLCandidateRepository) within(ctx context.Context, kind domain.Kind, center domain.Coordinates, radiusKm float64) ([]*domain.Stop, error) {
	minLon, minLat, maxLon, maxLat := boundingBox(center, radiusKm)
	b := r.Dialect.bind

	query := `
	SELECT
		stop_id, kind, name, lon, lat, city, postal_code,
		tags, poi_types, poi_themes, rating, trail_km, trail_hours
	FROM stops
	WHERE kind = ` + b(1) + `
		AND lat BETWEEN ` + b(2) + ` AND ` + b(3) + `
		AND lon BETWEEN ` + b(4) + ` AND ` + b(5) + `;
	`
	rows, err := r.DB.QueryContext(ctx, query, string(kind), minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch candidates: query %s stops", kind)
	}
	defer rows.Close()

	type hit struct {
		stop *domain.Stop
		dist float64
	}
	hits := []hit{}
	limit := radiusKm * 1000

	for rows.Next() {
		s, err := scanStop(rows)
		if err != nil {
			return nil, eris.Wrap(err, "fetch candidates: scan row")
		}
		d := center.DistanceMeters(s.Coordinates)
		if d <= limit {
			hits = append(hits, hit{stop: s, dist: d})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "fetch candidates: row iteration")
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].stop.ID < hits[j].stop.ID
	})

	out := make([]*domain.Stop, len(hits))
	for i, h := range hits {
		out[i] = h.stop
	}
	return out, nil
}

func scanStop(rows *sql.Rows) (*domain.Stop, error) {
	var (
		id, kindName, name, city, postal string
		lon, lat                         float64
		tags, types, themes              string
		rating, trailKm, trailHours      sql.NullFloat64
	)
	if err := rows.Scan(&id, &kindName, &name, &lon, &lat, &city, &postal,
		&tags, &types, &themes, &rating, &trailKm, &trailHours); err != nil {
		return nil, err
	}

	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	s := domain.NewStop(id, name, kind, domain.Coordinates{Lon: lon, Lat: lat})
	s.Place = domain.Place{City: city, PostalCode: postal}
	if s.Tags, err = decodeList(tags); err != nil {
		return nil, eris.Wrapf(err, "stop %s: tags", id)
	}
	if rating.Valid {
		v := rating.Float64
		s.Rating = &v
	}

	switch kind {
	case domain.KindPOI:
		if s.POI.Types, err = decodeList(types); err != nil {
			return nil, eris.Wrapf(err, "stop %s: types", id)
		}
		if s.POI.Themes, err = decodeList(themes); err != nil {
			return nil, eris.Wrapf(err, "stop %s: themes", id)
		}
	case domain.KindTrail:
		s.Trail = &domain.TrailAttributes{DistanceKm: trailKm.Float64, DurationHours: trailHours.Float64}
	}
	return s, nil
}

func boundingBox(c domain.Coordinates, radiusKm float64) (minLon, minLat, maxLon, maxLat float64) {
	// slightly under the true ~111.2 km so the box always covers the circle
	const kmPerDegree = 110.0
	dLat := radiusKm / kmPerDegree
	cos := math.Max(math.Cos(c.Lat*math.Pi/180), 0.01)
	dLon := radiusKm / (kmPerDegree * cos)
	return c.Lon - dLon, c.Lat - dLat, c.Lon + dLon, c.Lat + dLat
}
