package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/tour-content/internal/config"
)

const tourDoc = `---
title: Ridge Line Traverse
difficulty: Hard
difficultyNote: Exposed
duration: 7 hours
distance: 14 km
elevationGain: 900 m
bestSeason: [June, July]
groupSize: 2-6
region: Dolomites
terrainType: Ridge
accessNotes: Cable car
includes: [Guide]
featured: true
---
Body
`

const locationDoc = `---
name: Crater Lake
region: Highlands
terrain: Volcanic
highlights: []
---
`

func TestRunValidContent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/content/tours/ridge.md"), tourDoc)
	writeFile(t, filepath.Join(root, "src/content/locations/lake.md"), locationDoc)

	var out bytes.Buffer
	a := newApp(t, root, FormatJSON, &out)

	require.NoError(t, a.Run(context.Background()))

	var report jsonReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.OK)
	require.Len(t, report.Collections.Tours, 1)
	assert.Equal(t, "ridge", report.Collections.Tours[0].ID)
	assert.True(t, report.Collections.Tours[0].Data.Featured)
	require.Len(t, report.Collections.Locations, 1)
	assert.Empty(t, report.Failures)

	require.NotNil(t, a.Last())
	assert.True(t, a.ready.Load())
}

func TestRunReportsFailures(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/content/tours/ridge.md"), tourDoc)
	writeFile(t, filepath.Join(root, "src/content/locations/lake.md"), "---\nname: Lake\nregion: North\nterrain: Flat\n---\n")

	var out bytes.Buffer
	a := newApp(t, root, FormatText, &out)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	text := out.String()
	assert.Contains(t, text, "FAIL src/content/locations/lake.md (locations)")
	assert.Contains(t, text, "highlights: required field is missing (expected array of string, got missing)")
	assert.Contains(t, text, "tours: 1 files, 1 valid, 0 failed")
	assert.Contains(t, text, "failed: 1 of 2 files rejected")
}

func TestRunCollectionOverride(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "trips/ridge.md"), tourDoc)

	cfg := baseConfig(t, root)
	cfg.Collections = map[string]config.Collection{"tours": {Base: "trips"}}

	var out bytes.Buffer
	a, err := New(cfg, afero.NewOsFs(), Options{Format: FormatJSON, Out: &out})
	require.NoError(t, err)

	res, err := a.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Collections.Tours, 1)
	assert.Equal(t, "trips/ridge.md", res.Collections.Tours[0].FilePath)
}

func TestNewRejectsUnknownCollection(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t, t.TempDir())
	cfg.Collections = map[string]config.Collection{"events": {Base: "events"}}

	_, err := New(cfg, afero.NewOsFs(), Options{})
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestWatchRevalidatesOnChange(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src/content/tours/ridge.md"), tourDoc)
	writeFile(t, filepath.Join(root, "src/content/locations/lake.md"), locationDoc)

	cfg := baseConfig(t, root)
	cfg.MetricsEnabled = true
	cfg.MetricsPort = 0
	require.NoError(t, cfg.WatchInterval.Set("50ms"))

	a, err := New(cfg, afero.NewOsFs(), Options{Format: FormatText, Out: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx)
	}()

	require.Eventually(t, func() bool {
		res := a.Last()
		return res != nil && res.OK() && len(res.Collections.Locations) == 1
	}, 5*time.Second, 20*time.Millisecond)

	require.NotNil(t, a.webServer)
	_, port, err := net.SplitHostPort(a.webServer.Addr())
	require.NoError(t, err)
	base := "http://127.0.0.1:" + port

	assert.Equal(t, http.StatusOK, getStatus(t, base+"/health/ready"))
	assert.Equal(t, http.StatusOK, getStatus(t, base+"/metrics"))

	writeFile(t, filepath.Join(root, "src/content/locations/broken.md"), "---\nname: Broken\n---\n")

	require.Eventually(t, func() bool {
		res := a.Last()
		return res != nil && len(res.Failures) == 1 && len(res.Collections.Locations) == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "src/content/locations/broken.md", a.Last().Failures[0].File)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	require.NoError(t, a.Shutdown(context.Background()))
}

func getStatus(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp.StatusCode
}

func newApp(t *testing.T, root, format string, out *bytes.Buffer) *App {
	t.Helper()
	a, err := New(baseConfig(t, root), afero.NewOsFs(), Options{Format: format, Out: out})
	require.NoError(t, err)
	return a
}

func baseConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Root = root
	return cfg
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}
