// Package config loads client configuration from an HCL file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete client configuration.
type Config struct {
	Server ServerConfig `hcl:"server,block"`
	Player PlayerConfig `hcl:"player,block"`
	UI     UIConfig     `hcl:"ui,block"`
}

// ServerConfig contains game server connection settings.
type ServerConfig struct {
	URL            string `hcl:"url" env:"HOLDEMTABLE_SERVER"`
	AuthToken      string `hcl:"auth_token,optional" env:"HOLDEMTABLE_TOKEN"`
	RequestTimeout int    `hcl:"request_timeout,optional" env:"HOLDEMTABLE_REQUEST_TIMEOUT"`
	PollInterval   int    `hcl:"poll_interval,optional" env:"HOLDEMTABLE_POLL_INTERVAL"`
	Push           bool   `hcl:"push,optional" env:"HOLDEMTABLE_PUSH"`
}

// PlayerConfig contains the human seat and the automated roster used when
// bootstrapping a fresh game.
type PlayerConfig struct {
	Name          string    `hcl:"name" env:"HOLDEMTABLE_NAME"`
	StartingChips int       `hcl:"starting_chips,optional" env:"HOLDEMTABLE_CHIPS"`
	Bots          []BotSeat `hcl:"bot,block"`
}

// BotSeat is one automated seat in the starting roster.
type BotSeat struct {
	Name          string `hcl:"name,label"`
	StartingChips int    `hcl:"starting_chips,optional"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	LogLevel string `hcl:"log_level,optional" env:"HOLDEMTABLE_LOG_LEVEL"`
	LogFile  string `hcl:"log_file,optional" env:"HOLDEMTABLE_LOG_FILE"`
}

// Default returns the default configuration: one human seat against two
// automated seats with the conventional names.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "http://localhost:8080",
			RequestTimeout: 30,
			PollInterval:   2,
		},
		Player: PlayerConfig{
			Name:          "",
			StartingChips: 1000,
			Bots: []BotSeat{
				{Name: "Bot1", StartingChips: 1000},
				{Name: "Bot2", StartingChips: 1000},
			},
		},
		UI: UIConfig{
			LogLevel: "warn",
			LogFile:  "holdemtable.log",
		},
	}
}

// Load reads configuration from the HCL file, falling back to defaults when
// the file does not exist, then applies environment variable overrides.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		var parsed Config
		diags = gohcl.DecodeBody(file.Body, nil, &parsed)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		applyDefaults(&parsed)
		cfg = &parsed
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaults.Server.RequestTimeout
	}
	if cfg.Server.PollInterval == 0 {
		cfg.Server.PollInterval = defaults.Server.PollInterval
	}
	if cfg.Player.StartingChips == 0 {
		cfg.Player.StartingChips = defaults.Player.StartingChips
	}
	if len(cfg.Player.Bots) == 0 {
		cfg.Player.Bots = defaults.Player.Bots
	}
	for i := range cfg.Player.Bots {
		if cfg.Player.Bots[i].StartingChips == 0 {
			cfg.Player.Bots[i].StartingChips = cfg.Player.StartingChips
		}
	}
	if cfg.UI.LogLevel == "" {
		cfg.UI.LogLevel = defaults.UI.LogLevel
	}
	if cfg.UI.LogFile == "" {
		cfg.UI.LogFile = defaults.UI.LogFile
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server URL is required")
	}
	if c.Player.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Server.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Player.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.UI.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.UI.LogLevel)
	}

	return nil
}
