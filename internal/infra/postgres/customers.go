package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// ============================================================
// Customers
// ============================================================

const insertCustomerSQL = `
INSERT INTO customers (
	id, company_name, customer_type, tax_id, registration_date,
	contact_email, contact_phone, address, credit_score,
	approved_credit_limit, onboarding_status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const selectCustomerSQL = `
SELECT id, company_name, customer_type, tax_id, registration_date,
	contact_email, contact_phone, address, credit_score,
	approved_credit_limit::text, onboarding_status, created_at, updated_at
FROM customers`

// CreateCustomer persists one customer; the unique index turns concurrent
// duplicate inserts into a conflict error.
func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateCustomer")
	defer span.End()

	_, err := s.pool.Exec(ctx, insertCustomerSQL, customerArgs(c)...)
	if isUniqueViolation(err) {
		return &domain.ErrConflict{Names: []string{c.CompanyName}}
	}
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// CreateCustomers persists a batch in one transaction: either every member
// is recorded or none are.
func (s *Store) CreateCustomers(ctx context.Context, cs []*domain.Customer) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateCustomers")
	defer span.End()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range cs {
		if _, err := tx.Exec(ctx, insertCustomerSQL, customerArgs(c)...); err != nil {
			if isUniqueViolation(err) {
				return &domain.ErrConflict{Names: []string{c.CompanyName}}
			}
			return fmt.Errorf("insert customer %q: %w", c.CompanyName, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// ExistingNames reports which of the given names are already persisted,
// preserving input order.
func (s *Store) ExistingNames(ctx context.Context, names []string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ExistingNames")
	defer span.End()

	folded := make([]string, len(names))
	for i, n := range names {
		folded[i] = strings.ToLower(strings.TrimSpace(n))
	}

	rows, err := s.pool.Query(ctx,
		`SELECT lower(company_name) FROM customers WHERE lower(company_name) = ANY($1)`, folded)
	if err != nil {
		return nil, fmt.Errorf("query existing names: %w", err)
	}
	defer rows.Close()

	taken := make(map[string]struct{})
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan existing name: %w", err)
		}
		taken[n] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate existing names: %w", err)
	}

	var existing []string
	for i, n := range names {
		if _, ok := taken[folded[i]]; ok {
			existing = append(existing, n)
		}
	}
	return existing, nil
}

// GetCustomer fetches a customer by company name with its documents.
func (s *Store) GetCustomer(ctx context.Context, companyName string) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetCustomer")
	defer span.End()

	row := s.pool.QueryRow(ctx, selectCustomerSQL+` WHERE lower(company_name) = lower($1)`, strings.TrimSpace(companyName))
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}

	if err := s.attachDocuments(ctx, []*domain.Customer{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCustomerByID fetches a customer by surrogate id with its documents.
func (s *Store) GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetCustomerByID")
	defer span.End()

	row := s.pool.QueryRow(ctx, selectCustomerSQL+` WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("select customer: %w", err)
	}

	if err := s.attachDocuments(ctx, []*domain.Customer{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCustomers returns all customers in insertion order.
func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListCustomers")
	defer span.End()

	return s.listCustomers(ctx, selectCustomerSQL+` ORDER BY created_at, company_name`)
}

// ListCustomersByStatus filters customers by onboarding status.
func (s *Store) ListCustomersByStatus(ctx context.Context, status domain.OnboardingStatus) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListCustomersByStatus")
	defer span.End()

	return s.listCustomers(ctx,
		selectCustomerSQL+` WHERE onboarding_status = $1 ORDER BY created_at, company_name`, string(status))
}

func (s *Store) listCustomers(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var refs []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		refs = append(refs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	if err := s.attachDocuments(ctx, refs); err != nil {
		return nil, err
	}

	out := make([]domain.Customer, len(refs))
	for i, c := range refs {
		out[i] = *c
	}
	return out, nil
}

// UpdateCustomerStatus overwrites the onboarding status unconditionally.
func (s *Store) UpdateCustomerStatus(ctx context.Context, companyName string, status domain.OnboardingStatus) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateCustomerStatus")
	defer span.End()

	tag, err := s.pool.Exec(ctx,
		`UPDATE customers SET onboarding_status = $1, updated_at = now() WHERE lower(company_name) = lower($2)`,
		string(status), strings.TrimSpace(companyName))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}

	s.logger.Debug("customer status updated",
		zap.String("company", companyName),
		zap.String("status", string(status)),
	)
	return nil
}

// customerArgs lays out insert parameters; decimal values travel as text so
// NUMERIC columns keep exact values.
func customerArgs(c *domain.Customer) []any {
	var creditLimit *string
	if c.ApprovedCreditLimit != nil {
		v := c.ApprovedCreditLimit.String()
		creditLimit = &v
	}
	return []any{
		c.ID, c.CompanyName, string(c.CustomerType), c.TaxID, c.RegistrationDate,
		c.ContactEmail, c.ContactPhone, c.Address, c.CreditScore,
		creditLimit, string(c.OnboardingStatus), c.CreatedAt, c.UpdatedAt,
	}
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var (
		c           domain.Customer
		custType    string
		status      string
		creditLimit *string
		created     time.Time
		updated     time.Time
	)
	err := row.Scan(&c.ID, &c.CompanyName, &custType, &c.TaxID, &c.RegistrationDate,
		&c.ContactEmail, &c.ContactPhone, &c.Address, &c.CreditScore,
		&creditLimit, &status, &created, &updated)
	if err != nil {
		return nil, err
	}
	c.CustomerType = domain.CustomerType(custType)
	c.OnboardingStatus = domain.OnboardingStatus(status)
	c.CreatedAt = created
	c.UpdatedAt = updated
	c.Documents = []domain.Document{}
	if creditLimit != nil {
		d, err := decimal.NewFromString(*creditLimit)
		if err != nil {
			return nil, fmt.Errorf("parse credit limit: %w", err)
		}
		c.ApprovedCreditLimit = &d
	}
	return &c, nil
}

// attachDocuments loads document records for the given customers in one
// query and attaches them in upload order.
func (s *Store) attachDocuments(ctx context.Context, cs []*domain.Customer) error {
	if len(cs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(cs))
	byID := make(map[uuid.UUID]*domain.Customer, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, customer_id, document_type, file_path, upload_date, status
		 FROM documents WHERE customer_id = ANY($1) ORDER BY upload_date`, ids)
	if err != nil {
		return fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d       domain.Document
			docType string
			status  string
		)
		if err := rows.Scan(&d.ID, &d.CustomerID, &docType, &d.FilePath, &d.UploadDate, &status); err != nil {
			return fmt.Errorf("scan document: %w", err)
		}
		d.DocumentType = domain.DocumentType(docType)
		d.Status = domain.DocumentStatus(status)
		if c := byID[d.CustomerID]; c != nil {
			c.Documents = append(c.Documents, d)
		}
	}
	return rows.Err()
}
