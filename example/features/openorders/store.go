package openorders

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/composable-projections-go/example/shared/core"
)

// ErrStoringOpenOrderFailed is returned when a read model write fails.
var ErrStoringOpenOrderFailed = errors.New("storing open order failed")

// OpenOrderRow is one row of the open_orders read model table.
type OpenOrderRow struct {
	OrderID    core.OrderIDString    `db:"order_id"`
	CustomerID core.CustomerIDString `db:"customer_id"`
	TotalCents core.CentsInt         `db:"total_cents"`
	Paid       bool                  `db:"paid"`
	PlacedAt   time.Time             `db:"placed_at"`
}

// Store is the persistence contract of the Open Orders read model.
type Store interface {
	InsertOrder(ctx context.Context, row OpenOrderRow) error
	MarkOrderPaid(ctx context.Context, orderID core.OrderIDString) error
	RemoveOrder(ctx context.Context, orderID core.OrderIDString) error
}

// PostgresStore implements Store on a PostgreSQL table.
//
// Inserts are upserts: at-least-once delivery means an event can be handled
// twice, and the second handling must not fail the run.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore using the given database handle.
func NewPostgresStore(db *sqlx.DB) PostgresStore {
	return PostgresStore{db: db}
}

// InsertOrder adds a newly placed order to the read model.
func (s PostgresStore) InsertOrder(ctx context.Context, row OpenOrderRow) error {
	query := `INSERT INTO open_orders (order_id, customer_id, total_cents, paid, placed_at)
	          VALUES (:order_id, :customer_id, :total_cents, :paid, :placed_at)
	          ON CONFLICT (order_id) DO NOTHING`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return errors.Join(ErrStoringOpenOrderFailed, err)
	}

	return nil
}

// MarkOrderPaid flags an open order as paid.
func (s PostgresStore) MarkOrderPaid(ctx context.Context, orderID core.OrderIDString) error {
	query := `UPDATE open_orders SET paid = TRUE WHERE order_id = $1`

	if _, err := s.db.ExecContext(ctx, query, orderID); err != nil {
		return errors.Join(ErrStoringOpenOrderFailed, err)
	}

	return nil
}

// RemoveOrder deletes an order from the read model once it is shipped or canceled.
func (s PostgresStore) RemoveOrder(ctx context.Context, orderID core.OrderIDString) error {
	query := `DELETE FROM open_orders WHERE order_id = $1`

	if _, err := s.db.ExecContext(ctx, query, orderID); err != nil {
		return errors.Join(ErrStoringOpenOrderFailed, err)
	}

	return nil
}
