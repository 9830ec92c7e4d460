// Package config loads application configuration from a YAML file, a
// .env file and environment variables, in ascending priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STOCKTALLY_"

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Shutdown ShutdownConfig `koanf:"shutdown"`
}

type ServerConfig struct {
	Addr    string        `koanf:"addr"`
	Timeout TimeoutConfig `koanf:"timeout"`
}

type TimeoutConfig struct {
	Read  time.Duration `koanf:"read"`
	Write time.Duration `koanf:"write"`
	Idle  time.Duration `koanf:"idle"`
}

type DatabaseConfig struct {
	URL      string        `koanf:"url"`
	MaxConns int32         `koanf:"max_conns"`
	Timeout  time.Duration `koanf:"timeout"`

	// Migrate runs pending schema migrations on startup.
	Migrate bool `koanf:"migrate"`
}

type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":          ":8080",
		"server.timeout.read":  "10s",
		"server.timeout.write": "10s",
		"server.timeout.idle":  "60s",
		"database.max_conns":   10,
		"database.timeout":     "5s",
		"database.migrate":     true,
		"log.level":            "info",
		"log.development":      false,
		"shutdown.timeout":     "15s",
	}
}

// Load reads configuration from configFile (optional), a .env file
// (optional) and STOCKTALLY_* environment variables.
func Load(configFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}

	transform := func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(strings.ToUpper(key), envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	if envFile, err := godotenv.Read(".env"); err == nil {
		envMap := make(map[string]any, len(envFile))
		for key, value := range envFile {
			if strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				envMap[transform(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", transform), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database.max_conns must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// String renders the configuration with credentials masked.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "server.addr=%s ", c.Server.Addr)
	fmt.Fprintf(&b, "database.url=%s ", maskURL(c.Database.URL))
	fmt.Fprintf(&b, "database.max_conns=%d ", c.Database.MaxConns)
	fmt.Fprintf(&b, "database.migrate=%t ", c.Database.Migrate)
	fmt.Fprintf(&b, "log.level=%s ", c.Log.Level)
	fmt.Fprintf(&b, "shutdown.timeout=%s", c.Shutdown.Timeout)
	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	if i := strings.LastIndex(url, "@"); i >= 0 {
		return "****@" + url[i+1:]
	}
	return "****"
}
