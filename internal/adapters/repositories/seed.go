package repositories

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type ZoneSeed struct {
	Code string  `json:"code" yaml:"code"`
	City string  `json:"city" yaml:"city"`
	Lon  float64 `json:"lon" yaml:"lon"`
	Lat  float64 `json:"lat" yaml:"lat"`
}

type StopSeed struct {
	ID         string   `json:"id" yaml:"id"`
	Kind       string   `json:"kind" yaml:"kind"`
	Name       string   `json:"name" yaml:"name"`
	Lon        float64  `json:"lon" yaml:"lon"`
	Lat        float64  `json:"lat" yaml:"lat"`
	City       string   `json:"city" yaml:"city"`
	PostalCode string   `json:"postal_code" yaml:"postal_code"`
	Tags       []string `json:"tags" yaml:"tags"`
	Types      []string `json:"types" yaml:"types"`
	Themes     []string `json:"themes" yaml:"themes"`
	Rating     *float64 `json:"rating" yaml:"rating"`
	TrailKm    *float64 `json:"trail_km" yaml:"trail_km"`
	TrailHours *float64 `json:"trail_hours" yaml:"trail_hours"`
}

type SeedFile struct {
	Zones []ZoneSeed `json:"zones" yaml:"zones"`
	Stops []StopSeed `json:"stops" yaml:"stops"`
}

// LoadSeedFile reads a .json, .yaml or .yml seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "load seed: read %q", path)
	}

	var data SeedFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &data)
	case ".json":
		err = json.Unmarshal(b, &data)
	default:
		return nil, eris.Errorf("load seed: unsupported extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "load seed: parse %q", path)
	}
	return &data, nil
}

// SeedFromFile loads a seed file and upserts its zones and stops.
// Stops without an id get a name-based UUID, so reseeding is idempotent.
func SeedFromFile(db *sql.DB, d Dialect, path string) error {
	data, err := LoadSeedFile(path)
	if err != nil {
		return err
	}
	return Seed(db, d, data)
}

func Seed(db *sql.DB, d Dialect, data *SeedFile) error {
	if db == nil {
		return eris.New("seed: DB is nil")
	}

	for i, z := range data.Zones {
		if strings.TrimSpace(z.Code) == "" {
			return eris.Errorf("seed: zone at index %d: code cannot be empty", i+1)
		}
		if !(domain.Coordinates{Lon: z.Lon, Lat: z.Lat}).Valid() {
			return eris.Errorf("seed: zone %q: invalid coordinates", z.Code)
		}
	}
	for i := range data.Stops {
		s := &data.Stops[i]
		if _, err := domain.ParseKind(s.Kind); err != nil {
			return eris.Wrapf(err, "seed: stop at index %d", i+1)
		}
		if strings.TrimSpace(s.Name) == "" {
			return eris.Errorf("seed: stop at index %d: name cannot be empty", i+1)
		}
		if s.ID == "" {
			s.ID = seedStopID(*s)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return eris.Wrap(err, "seed: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	zoneStmt, err := tx.Prepare(upsertZoneQuery(d))
	if err != nil {
		return eris.Wrap(err, "seed: prepare zone insert")
	}
	defer zoneStmt.Close()

	for _, z := range data.Zones {
		if _, err := zoneStmt.Exec(strings.TrimSpace(z.Code), z.City, z.Lon, z.Lat); err != nil {
			return eris.Wrapf(err, "seed: insert zone code=%s", z.Code)
		}
	}

	stopStmt, err := tx.Prepare(upsertStopQuery(d))
	if err != nil {
		return eris.Wrap(err, "seed: prepare stop insert")
	}
	defer stopStmt.Close()

	for _, s := range data.Stops {
		kind, _ := domain.ParseKind(s.Kind)
		_, err := stopStmt.Exec(
			s.ID, string(kind), s.Name, s.Lon, s.Lat, s.City, s.PostalCode,
			encodeList(s.Tags), encodeList(s.Types), encodeList(s.Themes),
			s.Rating, s.TrailKm, s.TrailHours,
		)
		if err != nil {
			return eris.Wrapf(err, "seed: insert stop id=%s", s.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "seed: commit tx")
	}
	return nil
}

func seedStopID(s StopSeed) string {
	key := s.Kind + "|" + s.Name + "|" +
		strconv.FormatFloat(s.Lon, 'f', 6, 64) + "|" + strconv.FormatFloat(s.Lat, 'f', 6, 64)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

func upsertZoneQuery(d Dialect) string {
	if d == DialectPostgres {
		return `
	INSERT INTO zones (code, city, lon, lat)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (code) DO UPDATE
	SET city = EXCLUDED.city, lon = EXCLUDED.lon, lat = EXCLUDED.lat;
	`
	}
	return `
	INSERT OR REPLACE INTO zones (code, city, lon, lat)
	VALUES (?, ?, ?, ?);
	`
}

func upsertStopQuery(d Dialect) string {
	cols := `stop_id, kind, name, lon, lat, city, postal_code, tags, poi_types, poi_themes, rating, trail_km, trail_hours`
	if d == DialectPostgres {
		return `
	INSERT INTO stops (` + cols + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (stop_id) DO UPDATE
	SET kind = EXCLUDED.kind, name = EXCLUDED.name, lon = EXCLUDED.lon, lat = EXCLUDED.lat,
		city = EXCLUDED.city, postal_code = EXCLUDED.postal_code, tags = EXCLUDED.tags,
		poi_types = EXCLUDED.poi_types, poi_themes = EXCLUDED.poi_themes, rating = EXCLUDED.rating,
		trail_km = EXCLUDED.trail_km, trail_hours = EXCLUDED.trail_hours;
	`
	}
	return `
	INSERT OR REPLACE INTO stops (` + cols + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
