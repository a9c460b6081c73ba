package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/fxledger/broker"
	"github.com/rustyeddy/fxledger/match"
)

// EnvPrefix prefixes every environment override, e.g. FXLEDGER_DB_PATH.
const EnvPrefix = "FXLEDGER_"

// Config represents the complete fxledger configuration
type Config struct {
	Database DatabaseConfig          `json:"database" yaml:"database" envPrefix:"DB_"`
	Log      LogConfig               `json:"log" yaml:"log" envPrefix:"LOG_"`
	Import   ImportConfig            `json:"import" yaml:"import" envPrefix:"IMPORT_"`
	Matching MatchingConfig          `json:"matching" yaml:"matching" envPrefix:"MATCH_"`
	Brokers  map[string]BrokerConfig `json:"brokers,omitempty" yaml:"brokers,omitempty"`
	Server   ServerConfig            `json:"server" yaml:"server" envPrefix:"SERVER_"`
}

// DatabaseConfig locates the sqlite journal
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path" env:"PATH"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level    string `json:"level" yaml:"level" env:"LEVEL"`          // debug, info, warn, error
	Encoding string `json:"encoding" yaml:"encoding" env:"ENCODING"` // console or json
}

// ImportConfig contains import parameters
type ImportConfig struct {
	AutoMerge   bool   `json:"auto_merge" yaml:"auto_merge" env:"AUTO_MERGE"`
	MergeWindow string `json:"merge_window" yaml:"merge_window" env:"MERGE_WINDOW"` // e.g., "1s"
}

// Window converts the merge window string to time.Duration
func (ic ImportConfig) Window() (time.Duration, error) {
	if ic.MergeWindow == "" {
		return time.Second, nil
	}
	return time.ParseDuration(ic.MergeWindow)
}

// MatchingConfig contains position matching parameters
type MatchingConfig struct {
	Epsilon float64 `json:"epsilon" yaml:"epsilon" env:"EPSILON"`
}

// BrokerConfig overrides a broker's matching defaults
type BrokerConfig struct {
	Strategy    string `json:"strategy,omitempty" yaml:"strategy,omitempty"`         // lifo, fifo or tolerance
	OnUnmatched string `json:"on_unmatched,omitempty" yaml:"on_unmatched,omitempty"` // skip or fail
	Account     string `json:"account,omitempty" yaml:"account,omitempty"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" env:"ADDR"`
}

// Load builds the effective configuration: defaults, then the file at path
// if one is given, then .env and FXLEDGER_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	// .env is optional; plain environment variables work without it
	_ = godotenv.Load()
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, c)
	if err != nil {
		err = json.Unmarshal(data, c)
		if err != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from FXLEDGER_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Log.Encoding != "console" && c.Log.Encoding != "json" {
		return fmt.Errorf("log.encoding must be 'console' or 'json'")
	}
	w, err := c.Import.Window()
	if err != nil {
		return fmt.Errorf("import.merge_window: %w", err)
	}
	if w < 0 {
		return fmt.Errorf("import.merge_window must not be negative")
	}
	if c.Matching.Epsilon < 0 {
		return fmt.Errorf("matching.epsilon must not be negative")
	}
	for id, b := range c.Brokers {
		if _, err := broker.Lookup(broker.ID(id)); err != nil {
			return fmt.Errorf("brokers.%s: %w", id, err)
		}
		switch strings.ToLower(b.Strategy) {
		case "", match.LIFO, match.FIFO, match.Tolerance:
		default:
			return fmt.Errorf("brokers.%s.strategy must be lifo, fifo or tolerance", id)
		}
		if _, err := match.ParsePolicy(b.OnUnmatched); err != nil {
			return fmt.Errorf("brokers.%s.on_unmatched: %w", id, err)
		}
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Broker returns the overrides configured for id, if any.
func (c *Config) Broker(id broker.ID) BrokerConfig {
	return c.Brokers[string(id)]
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./fxledger.db",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Import: ImportConfig{
			AutoMerge:   true,
			MergeWindow: "1s",
		},
		Matching: MatchingConfig{
			Epsilon: match.DefaultEpsilon,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}
