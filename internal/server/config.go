package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Frank-III/PixeLana-further/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server *ServerSettings `hcl:"server,block"`
	Game   *GameSettings   `hcl:"game,block"`
	Sweep  *SweepSettings  `hcl:"sweep,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains the room roster limits
type GameSettings struct {
	MaxPlayers int `hcl:"max_players,optional"`
	MinPlayers int `hcl:"min_players,optional"`
}

// SweepSettings controls abandoned-room eviction. Enabled is a
// pointer so an omitted setting stays distinguishable from an
// explicit false; sweeping defaults to on either way the block is
// written.
type SweepSettings struct {
	Enabled  *bool  `hcl:"enabled,optional"`
	Interval string `hcl:"interval,optional"`
	MaxIdle  string `hcl:"max_idle,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     3001,
			LogLevel: "info",
		},
		Game: &GameSettings{
			MaxPlayers: 8,
			MinPlayers: 3,
		},
		Sweep: &SweepSettings{
			Interval: "1m",
			MaxIdle:  "30m",
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing blocks and values
	defaults := DefaultServerConfig()
	if config.Server == nil {
		config.Server = defaults.Server
	}
	if config.Game == nil {
		config.Game = defaults.Game
	}
	if config.Sweep == nil {
		config.Sweep = defaults.Sweep
	}

	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.MaxPlayers == 0 {
		config.Game.MaxPlayers = defaults.Game.MaxPlayers
	}
	if config.Game.MinPlayers == 0 {
		config.Game.MinPlayers = defaults.Game.MinPlayers
	}
	if config.Sweep.Interval == "" {
		config.Sweep.Interval = defaults.Sweep.Interval
	}
	if config.Sweep.MaxIdle == "" {
		config.Sweep.MaxIdle = defaults.Sweep.MaxIdle
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Game.MaxPlayers < 2 || c.Game.MaxPlayers > 8 {
		return fmt.Errorf("max players must be between 2 and 8, got %d", c.Game.MaxPlayers)
	}
	if c.Game.MinPlayers < 2 || c.Game.MinPlayers > c.Game.MaxPlayers {
		return fmt.Errorf("min players must be between 2 and max players, got %d", c.Game.MinPlayers)
	}

	if _, err := time.ParseDuration(c.Sweep.Interval); err != nil {
		return fmt.Errorf("invalid sweep interval %q: %w", c.Sweep.Interval, err)
	}
	if _, err := time.ParseDuration(c.Sweep.MaxIdle); err != nil {
		return fmt.Errorf("invalid sweep max idle %q: %w", c.Sweep.MaxIdle, err)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameConfig returns the session limits for new rooms
func (c *ServerConfig) GameConfig() game.Config {
	return game.Config{
		MaxPlayers: c.Game.MaxPlayers,
		MinPlayers: c.Game.MinPlayers,
	}
}

// SweepEnabled reports whether the idle-room sweeper should run.
func (c *ServerConfig) SweepEnabled() bool {
	return c.Sweep.Enabled == nil || *c.Sweep.Enabled
}

// SweepInterval returns the parsed sweep tick interval
func (c *ServerConfig) SweepInterval() time.Duration {
	d, _ := time.ParseDuration(c.Sweep.Interval)
	return d
}

// SweepMaxIdle returns the parsed idle threshold for eviction
func (c *ServerConfig) SweepMaxIdle() time.Duration {
	d, _ := time.ParseDuration(c.Sweep.MaxIdle)
	return d
}
