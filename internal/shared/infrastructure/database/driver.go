package database

import "strings"

// Driver names a database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid reports whether d is a supported backend.
func (d Driver) IsValid() bool {
	return d == DriverPostgres || d == DriverSQLite
}

var (
	postgresPrefixes = []string{"postgres://", "postgresql://"}
	sqlitePrefixes   = []string{"sqlite://", "file:"}
	sqliteSuffixes   = []string{".db", ".sqlite", ".sqlite3"}
)

// DetectDriver infers the backend from a connection string. An empty URL
// selects SQLite so a local tracker needs no setup; anything unrecognized is
// treated as a PostgreSQL DSN.
func DetectDriver(url string) Driver {
	if url == "" || url == ":memory:" {
		return DriverSQLite
	}
	for _, p := range postgresPrefixes {
		if strings.HasPrefix(url, p) {
			return DriverPostgres
		}
	}
	for _, p := range sqlitePrefixes {
		if strings.HasPrefix(url, p) {
			return DriverSQLite
		}
	}
	for _, s := range sqliteSuffixes {
		if strings.HasSuffix(url, s) {
			return DriverSQLite
		}
	}
	return DriverPostgres
}

// SQLitePathFromURL strips the sqlite:// scheme from a URL, if present.
func SQLitePathFromURL(url string) string {
	return strings.TrimPrefix(url, "sqlite://")
}
