package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// ============================================================
// Orders
// ============================================================

const selectOrderSQL = `
SELECT id, customer_id, order_date, total_amount::text, status, created_at, updated_at
FROM orders`

// CreateOrder persists an order and its line items in one transaction.
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateOrder")
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, o.CustomerID).Scan(&exists); err != nil {
		return fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		return &domain.ErrNotFound{Resource: "customer", ID: o.CustomerID.String()}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, customer_id, order_date, total_amount, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.CustomerID, o.OrderDate, o.TotalAmount.String(), o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, item_index, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			o.ID, i, item.ProductName, item.Quantity, item.UnitPrice.String())
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

// GetOrder fetches an order with its line items.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetOrder")
	defer span.End()

	row := s.pool.QueryRow(ctx, selectOrderSQL+` WHERE id = $1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := s.attachItems(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListCustomerOrders returns all orders of one customer in order date order.
func (s *Store) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListCustomerOrders")
	defer span.End()

	rows, err := s.pool.Query(ctx, selectOrderSQL+` WHERE customer_id = $1 ORDER BY order_date, id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var refs []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		refs = append(refs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	if err := s.attachItems(ctx, refs); err != nil {
		return nil, err
	}

	out := make([]domain.Order, len(refs))
	for i, o := range refs {
		out[i] = *o
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o     domain.Order
		total string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	o.TotalAmount = d
	o.Items = []domain.OrderItem{}
	return &o, nil
}

func (s *Store) attachItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := s.pool.Query(ctx,
		`SELECT order_id, product_name, quantity, unit_price::text
		 FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, item_index`, ids)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    domain.OrderItem
			price   string
		)
		if err := rows.Scan(&orderID, &item.ProductName, &item.Quantity, &price); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return fmt.Errorf("parse unit price: %w", err)
		}
		item.UnitPrice = d
		if o := byID[orderID]; o != nil {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
