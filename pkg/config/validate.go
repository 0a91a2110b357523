package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// auth.jwt_secret is required: without it no token can be issued or
	// verified and every protected endpoint would fail.
	if c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("auth.jwt_secret is required (set QUILL_JWT_SECRET or JWT_SECRET)"))
	}

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	switch c.Storage.Type {
	case "memory", "sqlite", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\", \"sqlite\", or \"postgres\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	if c.Storage.Type == "sqlite" && c.Storage.SQLite.Path == "" {
		errs = append(errs, fmt.Errorf("storage.sqlite.path is required when storage.type is \"sqlite\""))
	}

	if c.LLM.BaseURL == "" {
		errs = append(errs, fmt.Errorf("llm.base_url is required"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, fmt.Errorf("llm.model is required"))
	}

	// llm.api_key is deliberately not required here: the server starts
	// without it and /api/chat reports a configuration error instead.

	return errors.Join(errs...)
}
