package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(db, DialectSQLite))
	require.NoError(t, SeedFromFile(db, DialectSQLite, filepath.Join("testdata", "bordeaux.yaml")))
	return db
}

func TestFetchCandidatesWithinRadius(t *testing.T) {
	repo := NewSqliteCandidateRepository(openTestDB(t), DefaultWidenConfig())
	repo.Widen.MaxLookupIterations = 1

	pool, err := repo.FetchCandidates(context.Background(), ports.CandidateQuery{Zone: "33000", RadiusKm: 5, Days: 1})
	require.NoError(t, err)

	assert.Equal(t, "Bordeaux", pool.City)
	assert.Len(t, pool.POIs, 4, "the dune is 50 km away")
	assert.Len(t, pool.Restaurants, 2)
	assert.Len(t, pool.Hostings, 1)
	assert.Empty(t, pool.Trails)

	// ordered by distance to the zone centroid
	assert.Equal(t, "poi-musee-aquitaine", pool.POIs[0].ID)

	var museum *domain.Stop
	for _, p := range pool.POIs {
		if p.ID == "poi-cite-du-vin" {
			museum = p
		}
	}
	require.NotNil(t, museum)
	assert.Equal(t, []string{"museum"}, museum.POI.Types)
	assert.Equal(t, []string{"wine", "culture"}, museum.POI.Themes)
	require.NotNil(t, museum.Rating)
	assert.Equal(t, 4.5, *museum.Rating)
	assert.Equal(t, domain.BaselineScore, museum.Score)
}

func TestFetchCandidatesWidensRadius(t *testing.T) {
	repo := NewSqliteCandidateRepository(openTestDB(t), WidenConfig{
		MinPerDay:           map[domain.Kind]int{domain.KindPOI: 5, domain.KindTrail: 1},
		MaxLookupIterations: 10,
		RadiusStepKm:        10,
	})

	pool, err := repo.FetchCandidates(context.Background(), ports.CandidateQuery{Zone: "33000", RadiusKm: 5, Days: 1})
	require.NoError(t, err)

	assert.Len(t, pool.POIs, 5, "widened until the dune is reached")
	require.Len(t, pool.Trails, 1)
	assert.NotEmpty(t, pool.Trails[0].ID, "seeded trail gets a generated id")
	require.NotNil(t, pool.Trails[0].Trail)
	assert.Equal(t, 12.5, pool.Trails[0].Trail.DistanceKm)
}

func TestFetchCandidatesStopsAfterMaxIterations(t *testing.T) {
	repo := NewSqliteCandidateRepository(openTestDB(t), WidenConfig{
		MinPerDay:           map[domain.Kind]int{domain.KindPOI: 50},
		MaxLookupIterations: 3,
		RadiusStepKm:        1,
	})

	pool, err := repo.FetchCandidates(context.Background(), ports.CandidateQuery{Zone: "33000", RadiusKm: 5, Days: 3})
	require.NoError(t, err)
	assert.Len(t, pool.POIs, 4)
}

func TestFetchCandidatesUnknownZone(t *testing.T) {
	repo := NewSqliteCandidateRepository(openTestDB(t), DefaultWidenConfig())

	_, err := repo.FetchCandidates(context.Background(), ports.CandidateQuery{Zone: "75000", RadiusKm: 5, Days: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownZone)

	_, err = repo.FetchCandidates(context.Background(), ports.CandidateQuery{Zone: "", RadiusKm: 5, Days: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownZone)

	_, err = repo.FetchCandidates(context.Background(), ports.CandidateQuery{Zone: "33000", RadiusKm: 0, Days: 1})
	assert.Error(t, err)
}

func TestSeedRejectsBadRows(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, InitSchema(db, DialectSQLite))

	err = Seed(db, DialectSQLite, &SeedFile{Stops: []StopSeed{{Kind: "castle", Name: "X"}}})
	assert.Error(t, err)

	err = Seed(db, DialectSQLite, &SeedFile{Zones: []ZoneSeed{{Code: "", City: "X"}}})
	assert.Error(t, err)

	_, err = LoadSeedFile("testdata/missing.toml")
	assert.Error(t, err)
}

func TestDialectBind(t *testing.T) {
	assert.Equal(t, "?", DialectSQLite.bind(3))
	assert.Equal(t, "$3", DialectPostgres.bind(3))
}

func TestReseedKeepsGeneratedIDsStable(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "reseed.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, InitSchema(db, DialectSQLite))

	require.NoError(t, SeedFromFile(db, DialectSQLite, "testdata/bordeaux.yaml"))
	require.NoError(t, SeedFromFile(db, DialectSQLite, "testdata/bordeaux.yaml"))

	var trails int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM stops WHERE kind = 'trail'`).Scan(&trails))
	assert.Equal(t, 1, trails)
}
