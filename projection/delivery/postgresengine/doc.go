// Package postgresengine implements the delivery contracts on PostgreSQL.
//
// EventFeed reads serialized events from an append-only events table in
// sequence_number order. CheckpointStore persists projection positions in a
// checkpoints table with one row per projection, upserted on save.
//
// Both types work with pgx pools, database/sql, and sqlx connections through
// a common internal adapter, so the choice of database library stays with the
// application:
//
//	feed, err := postgresengine.NewEventFeedFromPGXPool(pool)
//	checkpoints, err := postgresengine.NewCheckpointStoreFromPGXPool(pool)
//
// The expected schema:
//
//	CREATE TABLE events (
//	    sequence_number BIGSERIAL PRIMARY KEY,
//	    event_type      TEXT        NOT NULL,
//	    occurred_at     TIMESTAMPTZ NOT NULL,
//	    payload         JSONB       NOT NULL,
//	    metadata        JSONB       NOT NULL
//	);
//
//	CREATE TABLE projection_checkpoints (
//	    projection_name TEXT        PRIMARY KEY,
//	    sequence_number BIGINT      NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
//
// Table names are configurable with WithEventsTableName and WithCheckpointsTableName.
package postgresengine
