package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// ============================================================
// Orders
// ============================================================

// CreateOrder records an order for an existing customer. The total is derived
// from the items; any total supplied by the caller is ignored.
func (s *OnboardingService) CreateOrder(ctx context.Context, create *domain.OrderCreate) (o *domain.Order, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.CreateOrder")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("create_order", start, err) }()

	if err = create.Validate(); err != nil {
		return nil, err
	}

	// Resolve the customer first so an unknown id fails before any insert.
	if _, err = s.customers.GetCustomerByID(ctx, create.CustomerID); err != nil {
		return nil, err
	}

	o = domain.NewOrder(create, time.Now().UTC())
	if err = s.orders.CreateOrder(ctx, o); err != nil {
		return nil, err
	}

	s.metrics.IncrOrderCreated()
	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("customer_id", o.CustomerID.String()),
		zap.String("total", o.TotalAmount.String()),
	)
	return o, nil
}

// GetOrder fetches one order by id.
func (s *OnboardingService) GetOrder(ctx context.Context, id uuid.UUID) (o *domain.Order, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.GetOrder")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("get_order", start, err) }()
	span.SetAttributes(attribute.String("order.id", id.String()))

	return s.orders.GetOrder(ctx, id)
}

// ListCustomerOrders returns all orders of the named customer.
func (s *OnboardingService) ListCustomerOrders(ctx context.Context, companyName string) (orders []domain.Order, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.ListCustomerOrders")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("list_customer_orders", start, err) }()

	c, err := s.customers.GetCustomer(ctx, companyName)
	if err != nil {
		return nil, err
	}

	orders, err = s.orders.ListCustomerOrders(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
