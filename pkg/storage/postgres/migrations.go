package postgres

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationVersion extracts the numeric version from a migration
// filename such as "001_init.sql". The second return is false for files
// that do not follow the <version>_<name>.sql convention.
func migrationVersion(name string) (int, bool) {
	if !strings.HasSuffix(name, ".sql") {
		return 0, false
	}
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return version, true
}

// migrate brings the schema up to date. Applied versions are recorded
// in schema_migrations; the table itself is created by the first
// migration, so a failing existence check on a fresh database means
// "not applied" rather than an error.
func (s *Store) migrate(ctx context.Context) error {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	// Filenames start with the version, so name order is version order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version, ok := migrationVersion(entry.Name())
		if !ok {
			continue
		}

		var applied bool
		err := s.pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&applied)
		if err != nil {
			applied = false
		}
		if applied {
			continue
		}

		sql, err := migrationFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		slog.Info("applying migration", "file", entry.Name(), "version", version)

		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("applying migration %s: %w", entry.Name(), err)
		}
		if _, err := s.pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT DO NOTHING",
			version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}
