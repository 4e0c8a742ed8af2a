// Package config provides database and observability configuration helpers
// for the example: Order fulfillment in a small web shop.
//
// It contains factory functions for the two PostgreSQL connections the demo
// uses (pgx.Pool for the events feed, sqlx.DB for the read models) and for
// the OpenTelemetry providers backing the observability adapters.
//
// This package is part of the shell (infrastructure) layer.
package config
