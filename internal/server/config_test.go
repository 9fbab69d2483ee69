package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdem-server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, 1000, cfg.Table.StartingStack)
	assert.Equal(t, 10, cfg.Table.SmallBlind)
	assert.Equal(t, 20, cfg.Table.BigBlind)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigParsesHCL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

table {
  starting_stack  = 2500
  small_blind     = 25
  big_blind       = 50
  max_players     = 4
  next_hand_delay = 3
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, "debug", cfg.Server.LogLevel)

	tc := cfg.TableConfig()
	assert.Equal(t, 2500, tc.StartingStack)
	assert.Equal(t, 25, tc.SmallBlind)
	assert.Equal(t, 50, tc.BigBlind)
	assert.Equal(t, 4, tc.MaxPlayers)
	assert.Equal(t, 3*time.Second, tc.NextHandDelay)
}

func TestLoadConfigFillsPartialBlocks(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server {
  port = 9100
}

table {
  small_blind = 5
  big_blind   = 10
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9100", cfg.Addr())
	assert.Equal(t, 1000, cfg.Table.StartingStack)
	assert.Equal(t, 5, cfg.Table.SmallBlind)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "server { port = ")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, false},
		{"zero small blind", func(c *Config) { c.Table.SmallBlind = 0 }, false},
		{"blind order", func(c *Config) { c.Table.BigBlind = c.Table.SmallBlind }, false},
		{"too many seats", func(c *Config) { c.Table.MaxPlayers = 7 }, false},
		{"one seat", func(c *Config) { c.Table.MaxPlayers = 1 }, false},
		{"stack too small", func(c *Config) { c.Table.StartingStack = 10 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
