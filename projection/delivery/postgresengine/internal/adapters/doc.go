// Package adapters lets the PostgreSQL event feed and checkpoint store run on
// pgxpool.Pool, sql.DB, or sqlx.DB connections through one DBAdapter interface.
// The pgx pool gets a dedicated implementation; the two database/sql-based
// connection types share one.
package adapters
