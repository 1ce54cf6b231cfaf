// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// CustomerStore persists customer records and enforces case-insensitive
// company-name uniqueness.
type CustomerStore interface {
	// CreateCustomer persists one customer. Returns *domain.ErrConflict if
	// the company name is already taken.
	CreateCustomer(ctx context.Context, c *domain.Customer) error

	// CreateCustomers persists a batch as one unit. Uniqueness is still
	// enforced per record, including duplicates within the batch itself.
	CreateCustomers(ctx context.Context, cs []*domain.Customer) error

	// ExistingNames reports which of the given company names are already
	// persisted (case-insensitive), preserving input order.
	ExistingNames(ctx context.Context, names []string) ([]string, error)

	GetCustomer(ctx context.Context, companyName string) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListCustomersByStatus(ctx context.Context, status domain.OnboardingStatus) ([]domain.Customer, error)

	// UpdateCustomerStatus overwrites the onboarding status unconditionally.
	// Returns *domain.ErrNotFound for unknown customers.
	UpdateCustomerStatus(ctx context.Context, companyName string, status domain.OnboardingStatus) error
}

// OrderStore persists orders together with their line items.
type OrderStore interface {
	// CreateOrder persists the order and all of its items atomically:
	// either everything is recorded or nothing is.
	CreateOrder(ctx context.Context, o *domain.Order) error

	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
}

// DocumentStore records uploaded document metadata per customer.
type DocumentStore interface {
	AddDocument(ctx context.Context, companyName string, doc *domain.Document) error
	ListDocuments(ctx context.Context, companyName string) ([]domain.Document, error)

	// UpdateDocumentStatus overwrites the status of the first document of the
	// given type. Returns *domain.ErrNotFound if the customer has no such
	// document.
	UpdateDocumentStatus(ctx context.Context, companyName string, docType domain.DocumentType, status domain.DocumentStatus) error
}

// FileStore saves uploaded document files and returns the stored reference.
type FileStore interface {
	Save(ctx context.Context, companyName string, docType domain.DocumentType, filename string, content io.Reader) (string, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
