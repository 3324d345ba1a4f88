package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	GalleryCatalogSourceToml     = "toml"
	GalleryCatalogSourcePostgres = "postgres"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres, only used when the gallery catalog lives in the db
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	RateLimitAllowedPerMin int `toml:"rate_limit_allowed_per_min"`

	// gallery
	GalleryCatalogSource     string `toml:"gallery_catalog_source"`
	GalleryCatalogPath       string `toml:"gallery_catalog_path"`
	GalleryAssetsPath        string `toml:"gallery_assets_path"`
	GalleryImagesBaseURL     string `toml:"gallery_images_base_url"`
	GallerySessionTTLMinutes int    `toml:"gallery_session_ttl_minutes"`

	// lifting dashboard (hevy)
	HevyApiURL                 string `toml:"hevy_api_url"`
	HevyPageSize               int    `toml:"hevy_page_size"`
	WorkoutsHistoryPageSize    int    `toml:"workouts_history_page_size"`
	WorkoutsSnapshotTTLSeconds int    `toml:"workouts_snapshot_ttl_seconds"`

	// vault viewer (repository content api)
	VaultApiURL          string `toml:"vault_api_url"`
	VaultOwner           string `toml:"vault_owner"`
	VaultRepo            string `toml:"vault_repo"`
	VaultRef             string `toml:"vault_ref"`
	VaultCacheTTLMinutes int    `toml:"vault_cache_ttl_minutes"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config found for env: %s", env)
	}

	return cfg, nil
}

// Load reads the TOML file at path and returns the config for the given env,
// with defaults applied for the values not set in the file.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.RateLimitAllowedPerMin == 0 {
		c.RateLimitAllowedPerMin = 60
	}
	if c.GalleryCatalogSource == "" {
		c.GalleryCatalogSource = GalleryCatalogSourceToml
	}
	if c.GalleryImagesBaseURL == "" {
		c.GalleryImagesBaseURL = "/photos"
	}
	if c.GallerySessionTTLMinutes == 0 {
		c.GallerySessionTTLMinutes = 120
	}
	if c.HevyApiURL == "" {
		c.HevyApiURL = "https://api.hevyapp.com/v1"
	}
	if c.HevyPageSize == 0 {
		c.HevyPageSize = 10
	}
	if c.WorkoutsHistoryPageSize == 0 {
		c.WorkoutsHistoryPageSize = 10
	}
	if c.WorkoutsSnapshotTTLSeconds == 0 {
		c.WorkoutsSnapshotTTLSeconds = 300
	}
	if c.VaultApiURL == "" {
		c.VaultApiURL = "https://api.github.com"
	}
	if c.VaultRef == "" {
		c.VaultRef = "main"
	}
	if c.VaultCacheTTLMinutes == 0 {
		c.VaultCacheTTLMinutes = 10
	}
}

func (c *Config) Validate() error {
	switch c.GalleryCatalogSource {
	case GalleryCatalogSourceToml:
		if c.GalleryCatalogPath == "" {
			return errors.New("gallery_catalog_path must be set when gallery catalog source is toml")
		}
	case GalleryCatalogSourcePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres host and db name must be set when gallery catalog source is postgres")
		}
	default:
		return fmt.Errorf("unknown gallery catalog source: %s", c.GalleryCatalogSource)
	}

	if c.HevyPageSize < 1 || c.WorkoutsHistoryPageSize < 1 {
		return errors.New("page sizes must be positive")
	}

	return nil
}
