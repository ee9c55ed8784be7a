// Package migrations applies the embedded schema for the configured driver.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationFS embed.FS

// Run executes every .up.sql migration for the connection's driver in
// lexical order. Migrations are written with IF NOT EXISTS and are safe to
// re-run.
func Run(ctx context.Context, conn database.Connection) error {
	dir, err := dirFor(conn.Driver())
	if err != nil {
		return err
	}

	files, err := upFiles(dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		migration, err := fs.ReadFile(migrationFS, dir+"/"+file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if _, err := conn.Exec(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	return nil
}

func dirFor(driver database.Driver) (string, error) {
	switch driver {
	case database.DriverSQLite:
		return "sqlite", nil
	case database.DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func upFiles(dir string) ([]string, error) {
	entries, err := migrationFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
