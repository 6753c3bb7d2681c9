package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for datajobs.
type Config struct {
	Dataset   DatasetConfig
	Dashboard DashboardConfig
	Server    ServerConfig
	Charts    ChartsConfig
	Store     StoreConfig
	State     StateConfig
}

// DatasetConfig says where the CSV lives and how it is transformed.
type DatasetConfig struct {
	Path            string        // file path or http(s) URL
	ExchangeRate    float64       // USD -> EUR
	Countries       []string      // allow-list override; nil means the EU list
	RefreshInterval time.Duration // serve mode reload period, zero disables
	Retries         int           // extra attempts for remote sources
	RetryDelay      time.Duration // delay before the first retry, doubled after
	MinFetchGap     time.Duration // minimum time between fetches from one remote host
}

// IsRemote reports whether the dataset is fetched over HTTP.
func (d DatasetConfig) IsRemote() bool {
	return strings.HasPrefix(d.Path, "http://") || strings.HasPrefix(d.Path, "https://")
}

// DashboardConfig controls the terminal dashboard.
type DashboardConfig struct {
	GateCharts bool // charts are drawn only after pressing g
	TableRows  int  // rows shown per table block
	Watch      bool // reload when the dataset file changes
}

// ServerConfig controls the HTTP dashboard.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// ChartsConfig sets the PNG canvas size in inches.
type ChartsConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// StoreConfig points at the SQLite snapshot database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// StateConfig points at the bbolt file holding dashboard state.
type StateConfig struct {
	Path string `yaml:"path"`
}

const (
	defaultDatasetPath  = "jobs_in_data.csv"
	defaultExchangeRate = 0.92
	defaultTableRows    = 20
	defaultAddress      = "127.0.0.1:8501"
	defaultStorePath    = "datajobs.db"
	defaultStatePath    = "datajobs.state"
	defaultChartWidth   = 6
	defaultChartHeight  = 4
	defaultMinFetchGap  = 10 * time.Second
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Dataset   rawDatasetConfig   `yaml:"dataset"`
	Dashboard rawDashboardConfig `yaml:"dashboard"`
	Server    ServerConfig       `yaml:"server"`
	Charts    ChartsConfig       `yaml:"charts"`
	Store     StoreConfig        `yaml:"store"`
	State     StateConfig        `yaml:"state"`
}

type rawDatasetConfig struct {
	Path            string   `yaml:"path"`
	ExchangeRate    *float64 `yaml:"exchange_rate"`
	EUCountries     []string `yaml:"eu_countries"`
	RefreshInterval string   `yaml:"refresh_interval"`
	Retries         *int     `yaml:"retries"`
	RetryDelay      string   `yaml:"retry_delay"`
	MinFetchGap     string   `yaml:"min_fetch_gap"`
}

type rawDashboardConfig struct {
	GateCharts bool  `yaml:"gate_charts"`
	TableRows  int   `yaml:"table_rows"`
	Watch      *bool `yaml:"watch"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, _ := build(rawConfig{})
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// A .env file next to the working directory is loaded first so ${VARS} in the
// config can come from it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := build(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(raw rawConfig) (*Config, error) {
	var err error

	refresh := time.Duration(0)
	if raw.Dataset.RefreshInterval != "" {
		refresh, err = time.ParseDuration(raw.Dataset.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("parse dataset.refresh_interval %q: %w", raw.Dataset.RefreshInterval, err)
		}
	}

	retryDelay := 2 * time.Second
	if raw.Dataset.RetryDelay != "" {
		retryDelay, err = time.ParseDuration(raw.Dataset.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("parse dataset.retry_delay %q: %w", raw.Dataset.RetryDelay, err)
		}
	}

	minFetchGap := defaultMinFetchGap
	if raw.Dataset.MinFetchGap != "" {
		minFetchGap, err = time.ParseDuration(raw.Dataset.MinFetchGap)
		if err != nil {
			return nil, fmt.Errorf("parse dataset.min_fetch_gap %q: %w", raw.Dataset.MinFetchGap, err)
		}
	}

	retries := 2
	if raw.Dataset.Retries != nil {
		retries = *raw.Dataset.Retries
	}

	rate := defaultExchangeRate
	if raw.Dataset.ExchangeRate != nil {
		rate = *raw.Dataset.ExchangeRate
	}

	watch := true
	if raw.Dashboard.Watch != nil {
		watch = *raw.Dashboard.Watch
	}

	cfg := &Config{
		Dataset: DatasetConfig{
			Path:            orDefault(raw.Dataset.Path, defaultDatasetPath),
			ExchangeRate:    rate,
			Countries:       raw.Dataset.EUCountries,
			RefreshInterval: refresh,
			Retries:         retries,
			RetryDelay:      retryDelay,
			MinFetchGap:     minFetchGap,
		},
		Dashboard: DashboardConfig{
			GateCharts: raw.Dashboard.GateCharts,
			TableRows:  raw.Dashboard.TableRows,
			Watch:      watch,
		},
		Server: ServerConfig{Address: orDefault(raw.Server.Address, defaultAddress)},
		Charts: raw.Charts,
		Store:  StoreConfig{Path: orDefault(raw.Store.Path, defaultStorePath)},
		State:  StateConfig{Path: orDefault(raw.State.Path, defaultStatePath)},
	}
	if cfg.Dashboard.TableRows == 0 {
		cfg.Dashboard.TableRows = defaultTableRows
	}
	if cfg.Charts.Width == 0 {
		cfg.Charts.Width = defaultChartWidth
	}
	if cfg.Charts.Height == 0 {
		cfg.Charts.Height = defaultChartHeight
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func validate(cfg *Config) error {
	if cfg.Dataset.ExchangeRate <= 0 {
		return fmt.Errorf("dataset.exchange_rate must be positive, got %v", cfg.Dataset.ExchangeRate)
	}
	if cfg.Dataset.RefreshInterval < 0 {
		return fmt.Errorf("dataset.refresh_interval must not be negative, got %v", cfg.Dataset.RefreshInterval)
	}
	if cfg.Dataset.RefreshInterval > 0 && cfg.Dataset.RefreshInterval < time.Minute {
		return fmt.Errorf("dataset.refresh_interval must be at least 1m, got %v", cfg.Dataset.RefreshInterval)
	}
	if cfg.Dataset.Retries < 0 || cfg.Dataset.Retries > 10 {
		return fmt.Errorf("dataset.retries must be between 0 and 10, got %d", cfg.Dataset.Retries)
	}
	if cfg.Dataset.MinFetchGap < 0 {
		return fmt.Errorf("dataset.min_fetch_gap must not be negative, got %v", cfg.Dataset.MinFetchGap)
	}
	if cfg.Dataset.Countries != nil && len(cfg.Dataset.Countries) == 0 {
		return fmt.Errorf("dataset.eu_countries must not be empty when set")
	}
	if cfg.Dashboard.TableRows < 0 {
		return fmt.Errorf("dashboard.table_rows must not be negative, got %d", cfg.Dashboard.TableRows)
	}
	if cfg.Charts.Width < 0 || cfg.Charts.Height < 0 {
		return fmt.Errorf("charts.width and charts.height must be positive")
	}
	return nil
}
