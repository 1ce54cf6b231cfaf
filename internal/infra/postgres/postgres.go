// Package postgres is the relational persistence backend. It relies on the
// database's native transactions and a unique index on lower(company_name);
// the store itself performs no locking or retries.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("postgres")

// Store implements the customer, order, and document store ports on a pgx
// connection pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Connect opens a pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return New(pool, logger), nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping checks database connectivity, for health endpoints.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS customers (
	id                    UUID PRIMARY KEY,
	company_name          TEXT NOT NULL,
	customer_type         TEXT NOT NULL,
	tax_id                TEXT NOT NULL,
	registration_date     TIMESTAMPTZ NOT NULL,
	contact_email         TEXT NOT NULL,
	contact_phone         TEXT NOT NULL,
	address               TEXT NOT NULL,
	credit_score          DOUBLE PRECISION,
	approved_credit_limit NUMERIC(14,2),
	onboarding_status     TEXT NOT NULL DEFAULT 'pending',
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS customers_company_name_key
	ON customers (lower(company_name));

CREATE TABLE IF NOT EXISTS orders (
	id           UUID PRIMARY KEY,
	customer_id  UUID NOT NULL REFERENCES customers(id),
	order_date   TIMESTAMPTZ NOT NULL,
	total_amount NUMERIC(14,2) NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id     UUID NOT NULL REFERENCES orders(id),
	item_index   INT NOT NULL,
	product_name TEXT NOT NULL,
	quantity     INT NOT NULL,
	unit_price   NUMERIC(14,2) NOT NULL,
	PRIMARY KEY (order_id, item_index)
);

CREATE TABLE IF NOT EXISTS documents (
	id            UUID PRIMARY KEY,
	customer_id   UUID NOT NULL REFERENCES customers(id),
	document_type TEXT NOT NULL,
	file_path     TEXT NOT NULL,
	upload_date   TIMESTAMPTZ NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending'
);

CREATE INDEX IF NOT EXISTS documents_customer_idx ON documents (customer_id);
CREATE INDEX IF NOT EXISTS orders_customer_idx ON orders (customer_id);
`

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
