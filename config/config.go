package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/dart-league/app/shared/featureflags"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Scoring       ScoringConfig       `yaml:"scoring"`
	Features      FeaturesConfig      `yaml:"features"`
	League        LeagueConfig        `yaml:"league"`
}

// LeagueConfig holds league-wide settings.
type LeagueConfig struct {
	// Timezone is the zone bare dates are read in.
	Timezone string `yaml:"timezone"`
}

// Location loads the league timezone.
func (l LeagueConfig) Location() (*time.Location, error) {
	return time.LoadLocation(l.Timezone)
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL keeps events in process.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds API server configuration.
type HTTPConfig struct {
	Address         string        `yaml:"address"`
	RateLimit       float64       `yaml:"rate_limit"`
	RateBurst       int           `yaml:"rate_burst"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name"`
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	Version        string `yaml:"version"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// ScoringConfig holds the league points policy.
type ScoringConfig struct {
	Win  int `yaml:"win"`
	Draw int `yaml:"draw"`
	Loss int `yaml:"loss"`
}

// FeaturesConfig holds feature delays.
type FeaturesConfig struct {
	ScoreVisibilityDelay time.Duration `yaml:"score_visibility_delay"`
}

// Flags returns the feature lookup described by the configuration.
func (f FeaturesConfig) Flags() featureflags.Static {
	return featureflags.Static{featureflags.ScoreVisibilityDelay: f.ScoreVisibilityDelay}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = 5
	}
	if c.HTTP.RateBurst == 0 {
		c.HTTP.RateBurst = 10
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "dart-league"
	}
	if c.Observability.Version == "" {
		c.Observability.Version = "dev"
	}
	if c.League.Timezone == "" {
		c.League.Timezone = "Europe/London"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Scoring == (ScoringConfig{}) {
		c.Scoring = ScoringConfig{Win: 2, Draw: 1, Loss: 0}
	}
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("SCORE_VISIBILITY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCORE_VISIBILITY_DELAY value: %v", err)
		}
		cfg.Features.ScoreVisibilityDelay = d
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	// Load Postgres DSN
	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	// Optional; empty keeps the event bus in process
	cfg.NATS.URL = os.Getenv("NATS_URL")

	cfg.HTTP.Address = os.Getenv("HTTP_ADDRESS")
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.RateLimit = limit
	}

	cfg.Observability.MetricsAddress = os.Getenv("METRICS_ADDRESS") // optional; empty disables metrics
	cfg.Observability.Environment = os.Getenv("ENV")
	cfg.Observability.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.Observability.OTLPEndpoint = os.Getenv("OTLP_ENDPOINT")
	cfg.League.Timezone = os.Getenv("LEAGUE_TIMEZONE")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}

	if v := os.Getenv("SCORE_VISIBILITY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCORE_VISIBILITY_DELAY value: %v", err)
		}
		cfg.Features.ScoreVisibilityDelay = d
	}

	cfg.applyDefaults()
	return &cfg, nil
}
