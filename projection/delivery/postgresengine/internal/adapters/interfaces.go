package adapters

import "context"

// DBAdapter is the connection surface the event feed and checkpoint store run
// their generated SQL through. Implementations exist for pgxpool.Pool and for
// the database/sql API (plain sql.DB and sqlx.DB).
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBRows iterates the result of a feed batch or checkpoint lookup query.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// DBResult reports the outcome of a checkpoint upsert.
type DBResult interface {
	RowsAffected() (int64, error)
}
