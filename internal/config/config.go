package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all twentyq configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Game     GameConfig
	LLM      LLMConfig
}

type ServerConfig struct {
	Bind string
	Port int
}

type DatabaseConfig struct {
	// Path to the SQLite session database. Empty means sessions live only
	// in process memory.
	Path string
}

type GameConfig struct {
	// SessionTTL is how long an idle session survives before the sweeper
	// purges it. Also used as the session cookie max-age.
	SessionTTL time.Duration
}

type LLMConfig struct {
	Provider     string // "groq", "anthropic", "ollama"
	Model        string
	GroqKey      string
	AnthropicKey string
	OllamaURL    string
	OllamaModel  string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 8742,
		},
		Game: GameConfig{
			SessionTTL: 2 * time.Hour,
		},
		LLM: LLMConfig{
			Provider: "groq",
			Model:    "llama-3.3-70b-versatile",
		},
	}
}

// Load returns the default config with environment overrides applied.
// API keys are env-only; there is no config file to leak them from.
func Load() Config {
	cfg := Default()

	if v := os.Getenv("TWENTYQ_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("TWENTYQ_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TWENTYQ_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TWENTYQ_SESSION_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Game.SessionTTL = ttl
		}
	}

	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.LLM.GroqKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.AnthropicKey = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.LLM.OllamaURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.LLM.OllamaModel = v
	}

	return cfg
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
