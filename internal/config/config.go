package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the clientrank configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Recency RecencyConfig `yaml:"recency"`
	Ranking RankingConfig `yaml:"ranking"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: determined by env)
	Format string `yaml:"format"` // json, console (default: json in prod)
}

// Log formats.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Storage drivers.
const (
	DriverBadger = "badger"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// StorageConfig holds recency storage settings.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // badger, memory, redis (default: badger)
	Path             string   `yaml:"path"`   // badger data directory
	Addrs            []string `yaml:"addrs"`  // redis only
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RecencyConfig holds recently viewed settings.
type RecencyConfig struct {
	Capacity int `yaml:"capacity"`
}

// RankingConfig holds ranking thresholds.
type RankingConfig struct {
	StaleContactDays int     `yaml:"stale_contact_days"`
	SemanticMinQuery int     `yaml:"semantic_min_query"`
	AUMAbsoluteMax   float64 `yaml:"aum_absolute_max"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverBadger
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/clientrank"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "clientrank:"
	}
	if c.Recency.Capacity <= 0 {
		c.Recency.Capacity = 50
	}
	if c.Ranking.StaleContactDays <= 0 {
		c.Ranking.StaleContactDays = 90
	}
	if c.Ranking.SemanticMinQuery <= 0 {
		c.Ranking.SemanticMinQuery = 3
	}
	if c.Ranking.AUMAbsoluteMax <= 0 {
		c.Ranking.AUMAbsoluteMax = 100_000_000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, c.Logging.Format)
	}
	switch c.Storage.Driver {
	case DriverBadger, DriverMemory:
		// ok
	case DriverRedis:
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for driver %q", DriverRedis)
		}
	default:
		return fmt.Errorf(
			"storage.driver must be %q, %q or %q, got %q",
			DriverBadger, DriverMemory, DriverRedis, c.Storage.Driver,
		)
	}
	return nil
}

// RecencyKey returns the storage key of the recently viewed map.
func (c *Config) RecencyKey() string {
	return c.Storage.KeyPrefix + "recent_clients"
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
