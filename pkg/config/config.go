package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"aeroprofile/pkg/perf"
)

// Environment fallbacks applied by Load.
const (
	EnvAddress  = "AEROPROFILE_ADDRESS"
	EnvLogLevel = "AEROPROFILE_LOG_LEVEL"
)

// Config holds the application configuration.
type Config struct {
	Server      ServerConfig   `yaml:"server"`
	Log         LogConfig      `yaml:"log"`
	Performance perf.Constants `yaml:"performance"`
	Cache       CacheConfig    `yaml:"cache"`
	Stream      StreamConfig   `yaml:"stream"`
	Geo         GeoConfig      `yaml:"geo"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	Trace    bool        `yaml:"trace"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// CacheConfig sizes the built-profile cache.
type CacheConfig struct {
	Profiles int      `yaml:"profiles"`
	TTL      Duration `yaml:"ttl"`
}

// StreamConfig controls the websocket animation stream.
type StreamConfig struct {
	Steps    int      `yaml:"steps"`
	Interval Duration `yaml:"interval"`
}

// GeoConfig holds map projection settings.
type GeoConfig struct {
	H3Resolution int `yaml:"h3_resolution"` // 0 disables cell tagging
	TrackSamples int `yaml:"track_samples"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1960",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:       "logs/server.log",
				Level:      "INFO",
				MaxSizeMB:  32,
				MaxBackups: 3,
			},
			Requests: LogSettings{
				Path:       "logs/requests.log",
				Level:      "INFO",
				MaxSizeMB:  16,
				MaxBackups: 1,
			},
		},
		Performance: perf.Default(),
		Cache: CacheConfig{
			Profiles: 256,
			TTL:      Duration(time.Hour),
		},
		Stream: StreamConfig{
			Steps:    200,
			Interval: Duration(100 * time.Millisecond),
		},
		Geo: GeoConfig{
			H3Resolution: 6,
			TrackSamples: 64,
		},
	}
}

var reLevel = regexp.MustCompile(`(?i)^(debug|info|warn|error)$`)

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must be set")
	}
	for name, l := range map[string]LogSettings{"server": c.Log.Server, "requests": c.Log.Requests} {
		if l.Level != "" && !reLevel.MatchString(l.Level) {
			return fmt.Errorf("log.%s.level: unknown level %q", name, l.Level)
		}
	}
	if c.Cache.Profiles <= 0 {
		return fmt.Errorf("cache.profiles must be positive, got %d", c.Cache.Profiles)
	}
	if c.Stream.Steps <= 0 {
		return fmt.Errorf("stream.steps must be positive, got %d", c.Stream.Steps)
	}
	if c.Stream.Interval < 0 {
		return fmt.Errorf("stream.interval must not be negative")
	}
	if c.Geo.H3Resolution < 0 || c.Geo.H3Resolution > 15 {
		return fmt.Errorf("geo.h3_resolution must be within 0..15, got %d", c.Geo.H3Resolution)
	}
	if c.Geo.TrackSamples < 1 {
		return fmt.Errorf("geo.track_samples must be positive, got %d", c.Geo.TrackSamples)
	}
	if c.Performance.IASCR <= 0 || c.Performance.ROCC2 <= 0 {
		return fmt.Errorf("performance: ias_cr and roc_c2 must be positive")
	}
	return nil
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk, so user formatting and comments survive.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Env overrides are applied in memory only.
	if addr := os.Getenv(EnvAddress); addr != "" {
		cfg.Server.Address = addr
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Log.Server.Level = lvl
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# AeroProfile Configuration
# ------------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles), ft (feet)

`)
	data = append(header, data...)

	// Annotate fields whose meaning is not obvious from the key.
	reH3 := regexp.MustCompile(`(?m)^(\s+)h3_resolution:`)
	data = reH3.ReplaceAll(data, []byte("${1}# 0 disables H3 cell tagging, max 15\n${1}h3_resolution:"))

	reThreshold := regexp.MustCompile(`(?m)^(\s+)threshold_1:`)
	data = reThreshold.ReplaceAll(data, []byte("${1}# Profile class boundaries in NM (inclusive)\n${1}threshold_1:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
