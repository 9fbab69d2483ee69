package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdemtable/internal/game"
)

// Config is the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address   string `hcl:"address,optional"`
	Port      int    `hcl:"port,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	StaticDir string `hcl:"static_dir,optional"`
}

// TableSettings defines the single table's stakes
type TableSettings struct {
	StartingStack    int `hcl:"starting_stack,optional"`
	SmallBlind       int `hcl:"small_blind,optional"`
	BigBlind         int `hcl:"big_blind,optional"`
	MaxPlayers       int `hcl:"max_players,optional"`
	NextHandDelaySec int `hcl:"next_hand_delay,optional"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:   "localhost",
			Port:      8080,
			LogLevel:  "info",
			StaticDir: "static",
		},
		Table: TableSettings{
			StartingStack:    1000,
			SmallBlind:       10,
			BigBlind:         20,
			MaxPlayers:       6,
			NextHandDelaySec: 5,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Server.StaticDir == "" {
		config.Server.StaticDir = defaults.Server.StaticDir
	}
	if config.Table.StartingStack == 0 {
		config.Table.StartingStack = defaults.Table.StartingStack
	}
	if config.Table.SmallBlind == 0 {
		config.Table.SmallBlind = defaults.Table.SmallBlind
	}
	if config.Table.BigBlind == 0 {
		config.Table.BigBlind = defaults.Table.BigBlind
	}
	if config.Table.MaxPlayers == 0 {
		config.Table.MaxPlayers = defaults.Table.MaxPlayers
	}
	if config.Table.NextHandDelaySec == 0 {
		config.Table.NextHandDelaySec = defaults.Table.NextHandDelaySec
	}

	return &config, nil
}

// Validate rejects unusable configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Table.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Table.BigBlind <= c.Table.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Table.MaxPlayers < 2 || c.Table.MaxPlayers > 6 {
		return fmt.Errorf("max players must be between 2 and 6")
	}
	if c.Table.StartingStack < 50 || c.Table.StartingStack > 1_000_000 {
		return fmt.Errorf("starting stack must be between 50 and 1000000")
	}
	return nil
}

// Addr returns the full listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig converts the table settings into the engine's config
func (c *Config) TableConfig() game.Config {
	return game.Config{
		StartingStack: c.Table.StartingStack,
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		MaxPlayers:    c.Table.MaxPlayers,
		NextHandDelay: time.Duration(c.Table.NextHandDelaySec) * time.Second,
	}
}
