package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
dataset:
  path: data/jobs.csv
  exchange_rate: 0.9
  eu_countries:
    - Germany
    - France
  refresh_interval: 30m
  retries: 3
  retry_delay: 1s
  min_fetch_gap: 30s
dashboard:
  gate_charts: true
  table_rows: 50
  watch: false
server:
  address: ":9000"
charts:
  width: 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dataset.Path != "data/jobs.csv" {
		t.Errorf("Dataset.Path = %q", cfg.Dataset.Path)
	}
	if cfg.Dataset.ExchangeRate != 0.9 {
		t.Errorf("ExchangeRate = %v, want 0.9", cfg.Dataset.ExchangeRate)
	}
	if len(cfg.Dataset.Countries) != 2 || cfg.Dataset.Countries[1] != "France" {
		t.Errorf("Countries = %v", cfg.Dataset.Countries)
	}
	if cfg.Dataset.RefreshInterval != 30*time.Minute {
		t.Errorf("RefreshInterval = %v, want 30m", cfg.Dataset.RefreshInterval)
	}
	if cfg.Dataset.Retries != 3 || cfg.Dataset.RetryDelay != time.Second {
		t.Errorf("Retries = %d, RetryDelay = %v", cfg.Dataset.Retries, cfg.Dataset.RetryDelay)
	}
	if cfg.Dataset.MinFetchGap != 30*time.Second {
		t.Errorf("MinFetchGap = %v, want 30s", cfg.Dataset.MinFetchGap)
	}
	if !cfg.Dashboard.GateCharts || cfg.Dashboard.TableRows != 50 || cfg.Dashboard.Watch {
		t.Errorf("Dashboard = %+v", cfg.Dashboard)
	}
	if cfg.Server.Address != ":9000" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Charts.Width != 8 || cfg.Charts.Height != defaultChartHeight {
		t.Errorf("Charts = %+v", cfg.Charts)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dataset.Path != defaultDatasetPath {
		t.Errorf("Dataset.Path = %q, want %q", cfg.Dataset.Path, defaultDatasetPath)
	}
	if cfg.Dataset.ExchangeRate != defaultExchangeRate {
		t.Errorf("ExchangeRate = %v, want %v", cfg.Dataset.ExchangeRate, defaultExchangeRate)
	}
	if cfg.Dataset.Countries != nil {
		t.Errorf("Countries = %v, want nil", cfg.Dataset.Countries)
	}
	if cfg.Dataset.Retries != 2 {
		t.Errorf("Retries = %d, want 2", cfg.Dataset.Retries)
	}
	if cfg.Dataset.MinFetchGap != defaultMinFetchGap {
		t.Errorf("MinFetchGap = %v, want %v", cfg.Dataset.MinFetchGap, defaultMinFetchGap)
	}
	if !cfg.Dashboard.Watch {
		t.Error("Watch should default to true")
	}
	if cfg.Dashboard.TableRows != defaultTableRows {
		t.Errorf("TableRows = %d", cfg.Dashboard.TableRows)
	}
	if cfg.Store.Path != defaultStorePath || cfg.State.Path != defaultStatePath {
		t.Errorf("Store = %q, State = %q", cfg.Store.Path, cfg.State.Path)
	}
}

func TestDefault_MatchesEmptyFile(t *testing.T) {
	cfg := Default()
	if cfg.Server.Address != defaultAddress {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if cfg.Charts.Width != defaultChartWidth {
		t.Errorf("Charts.Width = %v", cfg.Charts.Width)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("DATAJOBS_TEST_CSV", "/srv/jobs.csv")
	cfg, err := Load(writeConfig(t, "dataset:\n  path: ${DATAJOBS_TEST_CSV}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dataset.Path != "/srv/jobs.csv" {
		t.Errorf("Dataset.Path = %q", cfg.Dataset.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "dataset: [broken"))
	if err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero exchange rate", "dataset:\n  exchange_rate: 0\n"},
		{"negative exchange rate", "dataset:\n  exchange_rate: -1\n"},
		{"refresh too short", "dataset:\n  refresh_interval: 5s\n"},
		{"bad refresh duration", "dataset:\n  refresh_interval: soon\n"},
		{"too many retries", "dataset:\n  retries: 50\n"},
		{"empty country list", "dataset:\n  eu_countries: []\n"},
		{"negative table rows", "dashboard:\n  table_rows: -2\n"},
		{"negative fetch gap", "dataset:\n  min_fetch_gap: -1s\n"},
		{"bad fetch gap", "dataset:\n  min_fetch_gap: often\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("Load: expected error")
			}
		})
	}
}

func TestDatasetConfig_IsRemote(t *testing.T) {
	tests := map[string]bool{
		"jobs_in_data.csv":             false,
		"/abs/path.csv":                false,
		"https://example.com/jobs.csv": true,
		"http://localhost/jobs.csv":    true,
	}
	for path, want := range tests {
		if got := (DatasetConfig{Path: path}).IsRemote(); got != want {
			t.Errorf("IsRemote(%q) = %v, want %v", path, got, want)
		}
	}
}
