package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, QUILL_CONFIG env, ./config.yaml, /etc/quill/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. QUILL_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/quill/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("QUILL_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/quill/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. The
// QUILL_* names are canonical; the unprefixed names (JWT_SECRET,
// DATABASE_URL, GROQ_API_KEY, SERPER_API_KEY) are kept for deployments
// that predate the structured config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QUILL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := firstEnv("QUILL_JWT_SECRET", "JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("QUILL_TOKEN_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = ttl
		}
	}
	if v := os.Getenv("QUILL_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("QUILL_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLite.Path = v
	}
	if v := firstEnv("QUILL_DATABASE_URL", "DATABASE_URL"); v != "" {
		cfg.Storage.Postgres.DSN = v
		// A DSN in the environment implies the postgres backend unless the
		// type was set explicitly.
		if os.Getenv("QUILL_STORAGE") == "" {
			cfg.Storage.Type = "postgres"
		}
	}
	if v := os.Getenv("QUILL_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := firstEnv("QUILL_LLM_API_KEY", "GROQ_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("QUILL_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := firstEnv("QUILL_SERPER_API_KEY", "SERPER_API_KEY"); v != "" {
		cfg.Search.SerperAPIKey = v
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. For each field ending in _file, if the value field is empty
// and the file field is set, the file is read, whitespace is trimmed, and
// the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// auth.jwt_secret_file -> auth.jwt_secret
	if cfg.Auth.JWTSecretFile != "" && cfg.Auth.JWTSecret == "" {
		val, err := readSecretFile(cfg.Auth.JWTSecretFile)
		if err != nil {
			return fmt.Errorf("auth.jwt_secret_file: %w", err)
		}
		cfg.Auth.JWTSecret = val
	}

	// storage.postgres.dsn_file -> storage.postgres.dsn
	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	// llm.api_key_file -> llm.api_key
	if cfg.LLM.APIKeyFile != "" && cfg.LLM.APIKey == "" {
		val, err := readSecretFile(cfg.LLM.APIKeyFile)
		if err != nil {
			return fmt.Errorf("llm.api_key_file: %w", err)
		}
		cfg.LLM.APIKey = val
	}

	// search.serper_api_key_file -> search.serper_api_key
	if cfg.Search.SerperAPIKeyFile != "" && cfg.Search.SerperAPIKey == "" {
		val, err := readSecretFile(cfg.Search.SerperAPIKeyFile)
		if err != nil {
			return fmt.Errorf("search.serper_api_key_file: %w", err)
		}
		cfg.Search.SerperAPIKey = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
