package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================
// Orders
// ============================================================

// OrderStatusPending is the status every new order starts in. Order status is
// deliberately a free-form string; only the default is fixed.
const OrderStatusPending = "pending"

// OrderItem is a single line of an order. It has no lifecycle outside its
// parent order.
type OrderItem struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Order belongs to exactly one customer. TotalAmount is derived from the
// items at creation time and is never settable by callers.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderCreate is the creation payload for POST /orders/.
type OrderCreate struct {
	CustomerID uuid.UUID   `json:"customer_id"`
	Items      []OrderItem `json:"items"`
}

// Validate checks the order payload: at least one item, positive quantities,
// non-negative unit prices.
func (o *OrderCreate) Validate() error {
	if o.CustomerID == uuid.Nil {
		return &ErrValidation{Field: "customer_id", Message: "is required"}
	}
	if len(o.Items) == 0 {
		return &ErrValidation{Field: "items", Message: "at least one item is required"}
	}
	for _, item := range o.Items {
		if item.ProductName == "" {
			return &ErrValidation{Field: "items", Message: "product_name is required on every item"}
		}
		if item.Quantity <= 0 {
			return &ErrValidation{Field: "items", Message: "quantity must be a positive integer"}
		}
		if item.UnitPrice.IsNegative() {
			return &ErrValidation{Field: "items", Message: "unit_price must not be negative"}
		}
	}
	return nil
}

// Total computes the derived order total: Σ quantity × unit price.
func (o *OrderCreate) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// NewOrder builds an Order from a validated payload.
func NewOrder(c *OrderCreate, now time.Time) *Order {
	return &Order{
		ID:          uuid.New(),
		CustomerID:  c.CustomerID,
		OrderDate:   now,
		TotalAmount: c.Total(),
		Status:      OrderStatusPending,
		Items:       c.Items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
