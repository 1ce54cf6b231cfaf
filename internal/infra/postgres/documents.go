package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// ============================================================
// Documents
// ============================================================

// AddDocument persists an uploaded document record for a customer.
func (s *Store) AddDocument(ctx context.Context, companyName string, d *domain.Document) error {
	ctx, span := tracer.Start(ctx, "Postgres.AddDocument")
	defer span.End()

	customerID, err := s.customerID(ctx, companyName)
	if err != nil {
		return err
	}
	d.CustomerID = customerID

	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (id, customer_id, document_type, file_path, upload_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.CustomerID, string(d.DocumentType), d.FilePath, d.UploadDate, string(d.Status))
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// ListDocuments returns a customer's documents in upload order.
func (s *Store) ListDocuments(ctx context.Context, companyName string) ([]domain.Document, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListDocuments")
	defer span.End()

	customerID, err := s.customerID(ctx, companyName)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, customer_id, document_type, file_path, upload_date, status
		 FROM documents WHERE customer_id = $1 ORDER BY upload_date`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var (
			d       domain.Document
			docType string
			status  string
		)
		if err := rows.Scan(&d.ID, &d.CustomerID, &docType, &d.FilePath, &d.UploadDate, &status); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.DocumentType = domain.DocumentType(docType)
		d.Status = domain.DocumentStatus(status)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateDocumentStatus sets the verification status of the earliest uploaded
// document of the given type.
func (s *Store) UpdateDocumentStatus(ctx context.Context, companyName string, docType domain.DocumentType, status domain.DocumentStatus) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateDocumentStatus")
	defer span.End()

	customerID, err := s.customerID(ctx, companyName)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET status = $1
		 WHERE id = (
			SELECT id FROM documents
			WHERE customer_id = $2 AND document_type = $3
			ORDER BY upload_date LIMIT 1
		 )`,
		string(status), customerID, string(docType))
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ErrNotFound{Resource: "document", ID: string(docType)}
	}
	return nil
}

// customerID resolves a company name to its surrogate id so callers can
// distinguish a missing customer from a missing document.
func (s *Store) customerID(ctx context.Context, companyName string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM customers WHERE lower(company_name) = lower($1)`,
		strings.TrimSpace(companyName)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, &domain.ErrNotFound{Resource: "customer", ID: companyName}
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve customer: %w", err)
	}
	return id, nil
}
