package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"10s", 10 * time.Second, false},
		{"1m", 1 * time.Minute, false},
		{"1.5h", 90 * time.Minute, false},
		{"1h30m", 90 * time.Minute, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 168 * time.Hour, false},
		{"2d2h", 50 * time.Hour, false},
		{"100ms", 100 * time.Millisecond, false},
		{"0", 0, false},
		{"", 0, false},
		{"5", 0, true},
		{"invalid", 0, true},
		{"3dx", 0, true},
		{"1h30", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseDistance(t *testing.T) {
	tests := []struct {
		input    string
		expected Distance
		wantErr  bool
	}{
		{"100m", 100, false},
		{"1.5km", 1500, false},
		{"1nm", 1852, false},
		{"270NM", 270 * 1852, false},
		{"1000ft", 304.8, false},
		{"1nm 1000ft", 1852 + 304.8, false},
		{"500", 500, false},
		{"-5km", -5000, false},
		{"10x", 0, true},
		{"km", 0, true},
		{"5km3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDistance(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.expected), float64(got), 1e-9)
		})
	}
}

func TestDistanceKm(t *testing.T) {
	d, err := ParseDistance("540nm")
	require.NoError(t, err)
	assert.InDelta(t, 1000.08, d.Km(), 1e-9)
}

func TestDurationYAML(t *testing.T) {
	var cfg struct {
		TTL Duration `yaml:"ttl"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("ttl: 2d\n"), &cfg))
	assert.Equal(t, 48*time.Hour, cfg.TTL.Std())

	out, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "ttl: 48h0m0s")

	err = yaml.Unmarshal([]byte("ttl: soon\n"), &cfg)
	assert.ErrorContains(t, err, "line 1")
}
