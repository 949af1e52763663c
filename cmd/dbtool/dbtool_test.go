package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	seed, err := filepath.Abs("../../data/seeds/bordeaux.yaml")
	require.NoError(t, err)

	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	t.Setenv("PLANNER_STORE_SQLITE_PATH", filepath.Join(dir, "app.db"))
	t.Setenv("PLANNER_STORE_SEED_PATH", seed)
	t.Setenv("PLANNER_LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedThenPlan(t *testing.T) {
	dir := setupEnv(t)

	_, err := execute(t, "migrate")
	require.NoError(t, err)
	_, err = execute(t, "seed")
	require.NoError(t, err)

	req := filepath.Join(dir, "trip.json")
	require.NoError(t, os.WriteFile(req, []byte(`{"zone":"33000","start_date":"2026-07-01","duration_days":1}`), 0o644))

	out, err := execute(t, "plan", "--request", req, "--geojson")
	require.NoError(t, err)

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotEmpty(t, fc.Features)
}

func TestPlanRejectsInvalidRequest(t *testing.T) {
	dir := setupEnv(t)

	req := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(req, []byte(`{"zone":"33000","duration_days":0}`), 0o644))

	_, err := execute(t, "plan", "--request", req)
	assert.Error(t, err)
}
