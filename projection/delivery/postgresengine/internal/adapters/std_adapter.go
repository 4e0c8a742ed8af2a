package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// stdQuerier is the database/sql surface shared by sql.DB and sqlx.DB.
// The feed and checkpoint store never use sqlx's named-parameter helpers,
// so both connection types run through the same adapter.
type stdQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// StdAdapter implements DBAdapter on top of the database/sql API.
type StdAdapter struct {
	db stdQuerier
}

// NewSQLAdapter adapts a plain sql.DB connection pool.
func NewSQLAdapter(db *sql.DB) *StdAdapter {
	return &StdAdapter{db: db}
}

// NewSQLXAdapter adapts a sqlx.DB connection pool.
func NewSQLXAdapter(db *sqlx.DB) *StdAdapter {
	return &StdAdapter{db: db}
}

// Query runs a feed or checkpoint query and wraps the resulting rows.
func (a *StdAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

// Exec runs a checkpoint upsert and wraps the outcome.
func (a *StdAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := a.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

type stdRows struct {
	rows *sql.Rows
}

func (r *stdRows) Next() bool {
	return r.rows.Next()
}

func (r *stdRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *stdRows) Close() error {
	return r.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (r *stdResult) RowsAffected() (int64, error) {
	return r.result.RowsAffected()
}
