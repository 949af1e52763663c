package repositories

import (
	"database/sql"

	"github.com/rotisserie/eris"
)

// InitSchema creates the zones, stops and signal_cache tables if missing.
func InitSchema(db *sql.DB, d Dialect) error {
	if db == nil {
		return eris.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return eris.Wrap(err, "init schema: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	payloadType, expiresType := "TEXT", "INTEGER"
	if d == DialectPostgres {
		payloadType, expiresType = "BYTEA", "TIMESTAMPTZ"
	}

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS zones (
		code TEXT PRIMARY KEY,
		city TEXT NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS stops (
		stop_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		poi_types TEXT NOT NULL DEFAULT '[]',
		poi_themes TEXT NOT NULL DEFAULT '[]',
		rating DOUBLE PRECISION,
		trail_km DOUBLE PRECISION,
		trail_hours DOUBLE PRECISION
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_stops_kind_lat_lon
	ON stops(kind, lat, lon);
	`,
		`
	CREATE TABLE IF NOT EXISTS signal_cache (
		cache_key TEXT PRIMARY KEY,
		payload ` + payloadType + ` NOT NULL,
		expires_at ` + expiresType + ` NOT NULL
	);
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return eris.Wrapf(err, "init schema: exec statement #%d", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "init schema: commit tx")
	}

	return nil
}
