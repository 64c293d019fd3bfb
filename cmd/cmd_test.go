// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jcodagnone/hotmap/hotspot"
	"github.com/jcodagnone/hotmap/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	return out.String()
}

func TestDebugDistance(t *testing.T) {
	assert.Equal(t, "111194.93 m\n", execute(t, "debug", "distance", "0,0", "0,1"))
	assert.Equal(t, "128016.86 m\n", execute(t, "debug", "distance", "12.9716,77.5946", "12.2958,76.6394"))
}

const seedFile = `{
  "version": "1.0",
  "last_updated": "2025-11-05T08:00:00Z",
  "complaints": [
    {"id": "b1", "seq": 1, "status": "REGISTERED", "submissionDate": "2025-11-03T01:00:00Z",
     "latitude": 12.9716, "longitude": 77.5946, "district": "Bengaluru Urban"},
    {"id": "b2", "seq": 2, "status": "REGISTERED", "submissionDate": "2025-11-03T02:00:00Z",
     "latitude": 12.9720, "longitude": 77.5950, "district": "Bengaluru Urban"},
    {"id": "m1", "seq": 3, "status": "COMPLETED", "submissionDate": "2025-11-03T03:00:00Z",
     "latitude": 12.2958, "longitude": 76.6394, "district": "Mysuru"}
  ]
}`

func TestHotspotsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedFile), 0o600))
	t.Cleanup(func() { *hotspotsOpts = hotspotsOptions{} })

	out := execute(t, "hotspots", "--from-file", path, "--json")

	var resp server.HotspotsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Clusters, 2)
	assert.Equal(t, "Mysuru", resp.Clusters[0].District)
	assert.Equal(t, 2, resp.Clusters[1].Count)
	assert.Len(t, resp.Clusters[1].Complaints, 2)
	assert.Equal(t, 10, resp.Focus.Zoom)

	*hotspotsOpts = hotspotsOptions{}
	out = execute(t, "hotspots", "--from-file", path, "--status", "completed", "--json=false")
	assert.Contains(t, out, "1 complaint in 1 hotspot, focus 12.29580,76.63940 zoom 10")
}

func TestWriteHotspotsTable(t *testing.T) {
	date := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	points := []hotspot.GeoPoint{
		{ID: "a", Latitude: 12.9716, Longitude: 77.5946, SubmissionDate: date},
		{ID: "b", Latitude: 12.9720, Longitude: 77.5950, SubmissionDate: date},
	}

	clusterer, err := hotspot.NewClusterer(hotspot.DefaultOptions())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeHotspotsTable(&out, server.NewHotspotsResponse(clusterer, points, false)))

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[1], "medium")
	assert.Contains(t, lines[1], "12.97180,77.59480")
	assert.Contains(t, lines[1], "Unknown")
	assert.Equal(t, "2 complaints in 1 hotspot, focus 12.97180,77.59480 zoom 10", lines[3])
}

func TestDbDir(t *testing.T) {
	opts := &rootOptions{}

	t.Setenv("HOTMAP_DB_PATH", "")
	assert.Equal(t, "db", opts.dbDir())

	t.Setenv("HOTMAP_DB_PATH", "/var/lib/hotmap")
	assert.Equal(t, "/var/lib/hotmap", opts.dbDir())

	opts.DbPath = "custom"
	assert.Equal(t, "custom", opts.dbDir())
}

func TestClustererFromFlags(t *testing.T) {
	opts := &rootOptions{CellSize: 0.01, BaseRadius: 10, RadiusPerPoint: 5}

	c, err := opts.clusterer()
	require.NoError(t, err)
	assert.InDelta(t, 25.0, c.Radius(3), 1e-9)

	opts.CellSize = 0
	_, err = opts.clusterer()
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	require.NoError(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HOTMAP_DOTENV_TEST=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("HOTMAP_DOTENV_TEST") })

	require.NoError(t, loadEnv(path))
	assert.Equal(t, "loaded", os.Getenv("HOTMAP_DOTENV_TEST"))
}

func TestHotspotsLimitDefaultsToServerCap(t *testing.T) {
	flag := hotspotsCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, strconv.Itoa(server.DefaultMaxPoints), flag.DefValue)
}
