// Package service provides the business logic layer (use cases).
// OnboardingService handles all customer onboarding operations:
// customer registration, status lifecycle, orders and documents.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/observability"
	"github.com/antscrawling/SupplyChainManagement/internal/port"
)

var tracer = otel.Tracer("service/onboarding")

// OnboardingService orchestrates customer onboarding over the configured
// stores. Customer reads go through the cache keyed by folded company name.
type OnboardingService struct {
	customers port.CustomerStore
	orders    port.OrderStore
	documents port.DocumentStore
	files     port.FileStore
	cache     port.Cache[*domain.Customer]
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewOnboardingService creates a new onboarding service.
func NewOnboardingService(
	customers port.CustomerStore,
	orders port.OrderStore,
	documents port.DocumentStore,
	files port.FileStore,
	cache port.Cache[*domain.Customer],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *OnboardingService {
	return &OnboardingService{
		customers: customers,
		orders:    orders,
		documents: documents,
		files:     files,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func cacheKey(companyName string) string {
	return "customer:" + foldName(companyName)
}

// observe records the operation duration and outcome counters. Errors that
// are not expected domain outcomes count as store failures.
func (s *OnboardingService) observe(operation string, start time.Time, err error) {
	s.metrics.RecordRequestDuration(operation, time.Since(start))
	if err != nil {
		s.metrics.IncrRequest("error")
		if !isDomainError(err) {
			s.metrics.IncrStoreError(operation)
		}
		return
	}
	s.metrics.IncrRequest("success")
}

func isDomainError(err error) bool {
	var notFound *domain.ErrNotFound
	var conflict *domain.ErrConflict
	var validation *domain.ErrValidation
	return errors.As(err, &notFound) || errors.As(err, &conflict) || errors.As(err, &validation)
}

// ============================================================
// Customers
// ============================================================

// CreateCustomer registers a single customer. Whatever status the profile
// carries, the stored customer starts pending.
func (s *OnboardingService) CreateCustomer(ctx context.Context, profile *domain.CustomerProfile) (c *domain.Customer, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.CreateCustomer")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("create_customer", start, err) }()

	if err = profile.Validate(); err != nil {
		return nil, err
	}

	c = domain.NewCustomer(profile, time.Now().UTC())
	if err = s.customers.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	s.metrics.AddCustomersCreated(1)
	s.logger.Info("customer created",
		zap.String("company", c.CompanyName),
		zap.String("customer_id", c.ID.String()),
	)
	return c, nil
}

// CreateCustomerBatch registers several customers as one unit. If any company
// name is already taken, or appears twice within the batch, the whole batch is
// rejected and the conflict names every duplicate.
func (s *OnboardingService) CreateCustomerBatch(ctx context.Context, profiles []*domain.CustomerProfile) (resp *domain.BatchCreateResponse, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.CreateCustomerBatch")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("create_customer_batch", start, err) }()
	span.SetAttributes(attribute.Int("batch.size", len(profiles)))

	if len(profiles) == 0 {
		return nil, &domain.ErrValidation{Field: "customers", Message: "at least one customer is required"}
	}

	names := make([]string, len(profiles))
	for i, p := range profiles {
		if err = p.Validate(); err != nil {
			return nil, err
		}
		names[i] = p.CompanyName
	}

	// Pre-check against the store so the conflict reports every taken name,
	// not just the first. The store still rejects races atomically.
	existing, err := s.customers.ExistingNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if dups := duplicateNames(names, existing); len(dups) > 0 {
		return nil, &domain.ErrConflict{Names: dups}
	}

	now := time.Now().UTC()
	customers := make([]*domain.Customer, len(profiles))
	for i, p := range profiles {
		customers[i] = domain.NewCustomer(p, now)
	}
	if err = s.customers.CreateCustomers(ctx, customers); err != nil {
		return nil, err
	}

	s.metrics.AddCustomersCreated(len(customers))
	s.logger.Info("customer batch created", zap.Int("count", len(customers)))

	out := make([]domain.Customer, len(customers))
	for i, c := range customers {
		out[i] = *c
	}
	return &domain.BatchCreateResponse{Created: len(out), Customers: out}, nil
}

// duplicateNames merges names already taken in the store with names repeated
// inside the batch itself, preserving batch order without repeats.
func duplicateNames(names, existing []string) []string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[foldName(n)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(names))
	reported := make(map[string]struct{})
	var dups []string
	for _, n := range names {
		key := foldName(n)
		_, inStore := taken[key]
		_, inBatch := seen[key]
		if inStore || inBatch {
			if _, done := reported[key]; !done {
				dups = append(dups, n)
				reported[key] = struct{}{}
			}
		}
		seen[key] = struct{}{}
	}
	return dups
}

// GetCustomer looks a customer up by company name, serving from the cache
// when possible.
func (s *OnboardingService) GetCustomer(ctx context.Context, companyName string) (c *domain.Customer, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.GetCustomer")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("get_customer", start, err) }()

	key := cacheKey(companyName)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("customer")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("customer")

	c, err = s.customers.GetCustomer(ctx, companyName)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, c)
	return c, nil
}

// ListCustomers returns every customer.
func (s *OnboardingService) ListCustomers(ctx context.Context) (cs []domain.Customer, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.ListCustomers")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("list_customers", start, err) }()

	return s.customers.ListCustomers(ctx)
}

// ListPendingCustomers returns customers still awaiting onboarding.
func (s *OnboardingService) ListPendingCustomers(ctx context.Context) (cs []domain.Customer, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.ListPendingCustomers")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("list_pending_customers", start, err) }()

	return s.customers.ListCustomersByStatus(ctx, domain.OnboardingPending)
}

// UpdateCustomerStatus overwrites the onboarding status. Any valid status can
// follow any other; there is no transition graph.
func (s *OnboardingService) UpdateCustomerStatus(ctx context.Context, companyName string, status domain.OnboardingStatus) (c *domain.Customer, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.UpdateCustomerStatus")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("update_customer_status", start, err) }()

	if !status.Valid() {
		return nil, &domain.ErrValidation{Field: "status", Message: "unknown onboarding status"}
	}

	if err = s.customers.UpdateCustomerStatus(ctx, companyName, status); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKey(companyName))

	s.logger.Info("onboarding status updated",
		zap.String("company", companyName),
		zap.String("status", string(status)),
	)
	return s.customers.GetCustomer(ctx, companyName)
}

// CustomerSummary aggregates the customer record with its orders and
// documents, fetched concurrently.
func (s *OnboardingService) CustomerSummary(ctx context.Context, companyName string) (sum *domain.CustomerSummary, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.CustomerSummary")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("customer_summary", start, err) }()

	c, err := s.customers.GetCustomer(ctx, companyName)
	if err != nil {
		return nil, err
	}

	var (
		orders []domain.Order
		docs   []domain.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gerr error
		orders, gerr = s.orders.ListCustomerOrders(gctx, c.ID)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		docs, gerr = s.documents.ListDocuments(gctx, c.CompanyName)
		return gerr
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	if orders == nil {
		orders = []domain.Order{}
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return &domain.CustomerSummary{Customer: c, Orders: orders, Documents: docs}, nil
}

// OnboardingMetrics returns the aggregated service metrics snapshot.
func (s *OnboardingService) OnboardingMetrics() *domain.OnboardingMetrics {
	return s.metrics.GetOnboardingSnapshot()
}
