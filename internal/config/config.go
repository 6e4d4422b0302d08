// Package config loads application configuration from file and environment.
package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Places  PlacesConfig  `yaml:"places" mapstructure:"places"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Enrich  EnrichConfig  `yaml:"enrich" mapstructure:"enrich"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// PlacesConfig holds Google Places API settings.
type PlacesConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	RadiusMeters int    `yaml:"radius_meters" mapstructure:"radius_meters"`
}

// GeocodeConfig configures anchor-point resolution.
type GeocodeConfig struct {
	Location  string  `yaml:"location" mapstructure:"location"`
	GoogleKey string  `yaml:"google_key" mapstructure:"google_key"`
	UserAgent string  `yaml:"user_agent" mapstructure:"user_agent"`
	RPS       float64 `yaml:"rps" mapstructure:"rps"`
}

// ScrapeConfig configures the website email scrape.
type ScrapeConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// EnrichConfig configures the batch enrichment run.
type EnrichConfig struct {
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
	CachePath    string `yaml:"cache_path" mapstructure:"cache_path"`
	CacheTTLDays int    `yaml:"cache_ttl_days" mapstructure:"cache_ttl_days"`
	E164Region   string `yaml:"e164_region" mapstructure:"e164_region"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VENDOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.radius_meters", 5000)
	v.SetDefault("geocode.location", "New Albany, Indiana, United States")
	v.SetDefault("geocode.user_agent", "gnucash-vendor-locator/1.0")
	v.SetDefault("geocode.rps", 1.0) // Nominatim usage policy: 1 req/s
	v.SetDefault("scrape.timeout_secs", 5)
	v.SetDefault("enrich.concurrency", 4)
	v.SetDefault("enrich.cache_ttl_days", 30)
	v.SetDefault("enrich.e164_region", "US")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ResolvePlacesKey returns the Places API credential: the configured value
// first, then the legacy environment variable names the original tooling
// accepted, first non-empty wins. An empty return means no credential is
// available anywhere.
func ResolvePlacesKey(cfg *Config) string {
	if cfg.Places.Key != "" {
		return cfg.Places.Key
	}
	if k := os.Getenv("GOOGLE_PLACES_API_KEY"); k != "" {
		return k
	}
	return os.Getenv("GOOGLE_API_KEY")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
