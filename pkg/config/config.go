// Package config provides unified configuration for the quill server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (QUILL_ prefix plus legacy names)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the quill server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Storage       StorageConfig       `yaml:"storage"`
	LLM           LLMConfig           `yaml:"llm"`
	Search        SearchConfig        `yaml:"search"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 150s, must cover LLM calls
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`      // required
	JWTSecretFile string        `yaml:"jwt_secret_file"` // _file variant for jwt_secret
	TokenTTL      time.Duration `yaml:"token_ttl"`       // default: 24h
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory", "sqlite", or "postgres", default: "sqlite"
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds embedded database settings.
type SQLiteConfig struct {
	Path string `yaml:"path"` // default: "data/quill.db"
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// LLMConfig holds chat-completion upstream settings.
type LLMConfig struct {
	BaseURL    string        `yaml:"base_url"`     // default: Groq's OpenAI-compatible endpoint
	APIKey     string        `yaml:"api_key"`      // required for /api/chat
	APIKeyFile string        `yaml:"api_key_file"` // _file variant for api_key
	Model      string        `yaml:"model"`        // default model name
	Timeout    time.Duration `yaml:"timeout"`      // default: 120s
}

// SearchConfig holds web-search provider settings.
type SearchConfig struct {
	SerperAPIKey     string        `yaml:"serper_api_key"`      // optional, enables Serper
	SerperAPIKeyFile string        `yaml:"serper_api_key_file"` // _file variant
	Timeout          time.Duration `yaml:"timeout"`             // default: 10s
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 150 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Type: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/quill.db",
			},
			Postgres: PostgresConfig{
				MaxConns:       25,
				MigrateOnStart: true,
			},
		},
		LLM: LLMConfig{
			BaseURL: "https://api.groq.com/openai",
			Model:   "meta-llama/llama-4-maverick-17b-128e-instruct",
			Timeout: 120 * time.Second,
		},
		Search: SearchConfig{
			Timeout: 10 * time.Second,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
