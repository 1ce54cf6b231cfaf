// Package memstore is the in-process persistence backend: a mutex-guarded
// table of customers with a case-insensitive unique index on company name,
// plus the orders and document records hanging off them. It implements the
// same store ports as the Postgres backend so the two are interchangeable.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// Store holds all records behind one RWMutex. Storage order is preserved so
// listings are deterministic.
type Store struct {
	mu sync.RWMutex

	// byName indexes customers by folded company name; insertion keeps the
	// original casing on the record itself.
	byName    map[string]*domain.Customer
	byID      map[uuid.UUID]string
	nameOrder []string

	orders     map[uuid.UUID]*domain.Order
	orderOrder []uuid.UUID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byName: make(map[string]*domain.Customer),
		byID:   make(map[uuid.UUID]string),
		orders: make(map[uuid.UUID]*domain.Order),
	}
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Ping always succeeds; the store lives in process.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// ============================================================
// Customers
// ============================================================

// CreateCustomer persists one customer, rejecting duplicate company names.
func (s *Store) CreateCustomer(_ context.Context, c *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(c)
}

// CreateCustomers persists a batch as one unit under a single lock
// acquisition. The first duplicate (against stored state or earlier batch
// members) aborts the whole batch with no effect.
func (s *Store) CreateCustomers(_ context.Context, cs []*domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dups []string
	seen := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		key := foldName(c.CompanyName)
		if _, exists := s.byName[key]; exists {
			dups = append(dups, c.CompanyName)
			continue
		}
		if _, inBatch := seen[key]; inBatch {
			dups = append(dups, c.CompanyName)
			continue
		}
		seen[key] = struct{}{}
	}
	if len(dups) > 0 {
		return &domain.ErrConflict{Names: dups}
	}

	for _, c := range cs {
		if err := s.insertLocked(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertLocked(c *domain.Customer) error {
	key := foldName(c.CompanyName)
	if _, exists := s.byName[key]; exists {
		return &domain.ErrConflict{Names: []string{c.CompanyName}}
	}

	stored := cloneCustomer(c)
	if stored.Documents == nil {
		stored.Documents = []domain.Document{}
	}
	s.byName[key] = stored
	s.byID[stored.ID] = key
	s.nameOrder = append(s.nameOrder, key)
	return nil
}

// ExistingNames reports which of the given names are already stored.
func (s *Store) ExistingNames(_ context.Context, names []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var existing []string
	for _, name := range names {
		if _, ok := s.byName[foldName(name)]; ok {
			existing = append(existing, name)
		}
	}
	return existing, nil
}

// GetCustomer looks a customer up by company name (case-insensitive).
func (s *Store) GetCustomer(_ context.Context, companyName string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byName[foldName(companyName)]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}
	return cloneCustomer(c), nil
}

// GetCustomerByID looks a customer up by surrogate id.
func (s *Store) GetCustomerByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.byID[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id.String()}
	}
	return cloneCustomer(s.byName[key]), nil
}

// ListCustomers returns all customers in storage order.
func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Customer, 0, len(s.nameOrder))
	for _, key := range s.nameOrder {
		out = append(out, *cloneCustomer(s.byName[key]))
	}
	return out, nil
}

// ListCustomersByStatus filters customers by onboarding status.
func (s *Store) ListCustomersByStatus(_ context.Context, status domain.OnboardingStatus) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Customer, 0)
	for _, key := range s.nameOrder {
		if c := s.byName[key]; c.OnboardingStatus == status {
			out = append(out, *cloneCustomer(c))
		}
	}
	return out, nil
}

// UpdateCustomerStatus overwrites the onboarding status unconditionally.
func (s *Store) UpdateCustomerStatus(_ context.Context, companyName string, status domain.OnboardingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byName[foldName(companyName)]
	if !ok {
		return &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}
	c.OnboardingStatus = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// ============================================================
// Orders
// ============================================================

// CreateOrder records the order and its items in one step; the single lock
// acquisition makes the write atomic.
func (s *Store) CreateOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[o.CustomerID]; !ok {
		return &domain.ErrNotFound{Resource: "customer", ID: o.CustomerID.String()}
	}

	stored := cloneOrder(o)
	s.orders[stored.ID] = stored
	s.orderOrder = append(s.orderOrder, stored.ID)
	return nil
}

// GetOrder fetches one order with its items.
func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "order", ID: id.String()}
	}
	return cloneOrder(o), nil
}

// ListCustomerOrders returns a customer's orders in storage order.
func (s *Store) ListCustomerOrders(_ context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0)
	for _, id := range s.orderOrder {
		if o := s.orders[id]; o.CustomerID == customerID {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, nil
}

// ============================================================
// Documents
// ============================================================

// AddDocument appends a document record to the customer. Multiple documents
// of the same type are allowed.
func (s *Store) AddDocument(_ context.Context, companyName string, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byName[foldName(companyName)]
	if !ok {
		return &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}
	c.Documents = append(c.Documents, *doc)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// ListDocuments returns the customer's documents in upload order.
func (s *Store) ListDocuments(_ context.Context, companyName string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byName[foldName(companyName)]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}
	out := make([]domain.Document, len(c.Documents))
	copy(out, c.Documents)
	return out, nil
}

// UpdateDocumentStatus overwrites the status of the first document of the
// given type.
func (s *Store) UpdateDocumentStatus(_ context.Context, companyName string, docType domain.DocumentType, status domain.DocumentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byName[foldName(companyName)]
	if !ok {
		return &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}
	for i := range c.Documents {
		if c.Documents[i].DocumentType == docType {
			c.Documents[i].Status = status
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "document", ID: string(docType)}
}

// ============================================================
// Copies — callers never share memory with stored records
// ============================================================

func cloneCustomer(c *domain.Customer) *domain.Customer {
	out := *c
	out.Documents = make([]domain.Document, len(c.Documents))
	copy(out.Documents, c.Documents)
	return &out
}

func cloneOrder(o *domain.Order) *domain.Order {
	out := *o
	out.Items = make([]domain.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out
}
