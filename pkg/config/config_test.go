package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeroprofile/pkg/perf"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		env           map[string]string
		validate      func(*testing.T, *Config)
		checkFile     func(*testing.T, string)
		expectedError bool
	}{
		{
			name: "NewFile_Defaults",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost:1960", cfg.Server.Address)
				assert.Equal(t, perf.Default(), cfg.Performance)
				assert.Equal(t, 256, cfg.Cache.Profiles)
				assert.Equal(t, time.Hour, cfg.Cache.TTL.Std())
			},
			checkFile: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Contains(t, string(content), "address: localhost:1960")
				assert.Contains(t, string(content), "# 0 disables H3 cell tagging")
				assert.Contains(t, string(content), "ias_cr: 290")
			},
		},
		{
			name:    "ExistingFile_Override",
			content: "server:\n  address: 0.0.0.0:8080\nperformance:\n  h_mc: 39000\nstream:\n  interval: 250ms\n",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address)
				assert.Equal(t, 39000.0, cfg.Performance.HMC)
				// Untouched table entries keep their defaults.
				assert.Equal(t, 290.0, cfg.Performance.IASCR)
				assert.Equal(t, 250*time.Millisecond, cfg.Stream.Interval.Std())
			},
			checkFile: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.False(t, strings.Contains(string(content), "AeroProfile Configuration"),
					"existing file must not be rewritten")
			},
		},
		{
			name:    "Env_Override",
			content: "server:\n  address: 127.0.0.1:1000\n",
			env:     map[string]string{EnvAddress: "127.0.0.1:2000", EnvLogLevel: "debug"},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "127.0.0.1:2000", cfg.Server.Address)
				assert.Equal(t, "debug", cfg.Log.Server.Level)
			},
		},
		{
			name:          "Invalid_H3Resolution",
			content:       "geo:\n  h3_resolution: 16\n",
			expectedError: true,
		},
		{
			name:          "Invalid_YAML",
			content:       "server: [",
			expectedError: true,
		},
		{
			name:          "Invalid_Duration",
			content:       "cache:\n  ttl: soon\n",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "conf", "aeroprofile.yaml")
			if tt.content != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(path)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
			if tt.checkFile != nil {
				tt.checkFile(t, path)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"EmptyAddress", func(c *Config) { c.Server.Address = "" }},
		{"BadLevel", func(c *Config) { c.Log.Requests.Level = "LOUD" }},
		{"ZeroCache", func(c *Config) { c.Cache.Profiles = 0 }},
		{"ZeroSteps", func(c *Config) { c.Stream.Steps = 0 }},
		{"NegativeResolution", func(c *Config) { c.Geo.H3Resolution = -1 }},
		{"NoTrackSamples", func(c *Config) { c.Geo.TrackSamples = 0 }},
		{"ZeroCruiseSpeed", func(c *Config) { c.Performance.IASCR = 0 }},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aeroprofile.yaml")
	cfg := DefaultConfig()
	cfg.Performance.Threshold1 = 200
	cfg.Geo.H3Resolution = 0
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestGenerateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "aeroprofile.yaml")
	require.NoError(t, GenerateDefault(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	// Existing files are left alone.
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o644))
	require.NoError(t, GenerateDefault(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(content))
}
