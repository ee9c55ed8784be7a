package database

import "context"

// Row is a single result row. *sql.Row and pgx.Row both satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the effect of an Exec. Inserts that need generated keys use
// RETURNING with QueryRow instead.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs statements written with '?' placeholders. Connections and
// transactions both implement it, so repositories never care which one they
// hold.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that must be ended exactly once.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle to one database.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}
