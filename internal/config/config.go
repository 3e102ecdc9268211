package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all bestfriend configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Bind           string   `toml:"bind"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	ChatRate       float64  `toml:"chat_rate"`  // requests per second per client
	ChatBurst      int      `toml:"chat_burst"` // 0 disables the limiter
	UIDir          string   `toml:"ui_dir"`     // built frontend served under /app/, empty disables
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // "text" or "json"
}

type EventsConfig struct {
	WindowDays int `toml:"window_days"` // default lookahead for upcoming events
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind:           "127.0.0.1",
			Port:           8000,
			AllowedOrigins: []string{"http://localhost:5173"},
			ChatRate:       5,
			ChatBurst:      10,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Events: EventsConfig{
			WindowDays: 30,
		},
	}
}

// Load builds a Config from defaults, an optional TOML file, an optional .env
// file in the working directory, and BESTFRIEND_* environment variables, in
// that order of precedence (later wins). A missing file at path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("decode %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BESTFRIEND_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("BESTFRIEND_BIND"); v != "" {
		c.Server.Bind = v
	}
	if v := os.Getenv("BESTFRIEND_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BESTFRIEND_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("BESTFRIEND_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("BESTFRIEND_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("BESTFRIEND_UI_DIR"); v != "" {
		c.Server.UIDir = v
	}
	if v := os.Getenv("BESTFRIEND_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Events.WindowDays < 0 {
		return fmt.Errorf("events.window_days must not be negative, got %d", c.Events.WindowDays)
	}
	if c.Server.ChatRate < 0 || c.Server.ChatBurst < 0 {
		return errors.New("server.chat_rate and server.chat_burst must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
