package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/datajobs/internal/config"
	"github.com/amishk599/datajobs/internal/dataset/datasettest"
	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/store"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { dataPath = "" })
	dataPath = ""
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfig_MissingDefaultUsesDefaults(t *testing.T) {
	resetFlags(t)
	chdir(t, t.TempDir())
	t.Setenv("DATAJOBS_CONFIG", "")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_MissingExplicitFails(t *testing.T) {
	resetFlags(t)
	chdir(t, t.TempDir())

	_, err := loadConfig("nope.yaml")
	assert.Error(t, err)

	t.Setenv("DATAJOBS_CONFIG", "also-missing.yaml")
	_, err = loadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_EnvAndDataOverride(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset:\n  path: from-file.csv\n  exchange_rate: 0.9\n"), 0644))
	t.Setenv("DATAJOBS_CONFIG", path)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-file.csv", cfg.Dataset.Path)
	assert.InDelta(t, 0.9, cfg.Dataset.ExchangeRate, 1e-9)

	dataPath = "https://example.com/jobs.csv"
	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/jobs.csv", cfg.Dataset.Path)
	assert.True(t, cfg.Dataset.IsRemote())
}

func TestCountryFilter(t *testing.T) {
	f := euFilter(nil)
	assert.True(t, f.Match(jobAt("Germany")))
	assert.False(t, f.Match(jobAt("germany")))
	assert.False(t, f.Match(jobAt("Canada")))

	f = euFilter([]string{"Canada"})
	assert.True(t, f.Match(jobAt("Canada")))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "Machine…", clip("Machine Learning", 8))
}

func jobAt(country string) model.Job {
	return model.Job{CompanyLocation: country}
}

func TestRequireSnapshots(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.ErrorIs(t, requireSnapshots(s), errNoSnapshots)

	require.NoError(t, s.SaveSnapshot(model.Snapshot{ID: "a", Source: "jobs.csv", ImportedAt: time.Now()}, []model.Job{jobAt("Germany")}))
	assert.NoError(t, requireSnapshots(s))
}

func TestNewLoader_LogsPublishedDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, datasettest.SampleCSV, 0644))

	cfg := config.Default()
	cfg.Dataset.Path = path

	var logs bytes.Buffer
	loader := newLoader(cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	changed, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.True(t, changed)
	assert.Contains(t, logs.String(), `msg="dataset published"`)
	assert.Contains(t, logs.String(), "eu_rows=5")
}
