package service

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// ============================================================
// Documents
// ============================================================

// UploadDocument stores an uploaded file and records its metadata. The
// document starts pending verification.
func (s *OnboardingService) UploadDocument(ctx context.Context, companyName string, docType domain.DocumentType, filename string, content io.Reader) (d *domain.Document, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.UploadDocument")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("upload_document", start, err) }()
	span.SetAttributes(attribute.String("document.type", string(docType)))

	if !docType.Valid() {
		return nil, &domain.ErrValidation{Field: "document_type", Message: "unknown document type"}
	}
	if filename == "" {
		return nil, &domain.ErrValidation{Field: "file", Message: "a file is required"}
	}

	c, err := s.customers.GetCustomer(ctx, companyName)
	if err != nil {
		return nil, err
	}

	path, err := s.files.Save(ctx, c.CompanyName, docType, filename, content)
	if err != nil {
		return nil, err
	}

	d = domain.NewDocument(c.ID, docType, path, time.Now().UTC())
	if err = s.documents.AddDocument(ctx, c.CompanyName, d); err != nil {
		return nil, err
	}
	s.cache.Delete(cacheKey(companyName))

	s.metrics.IncrDocumentUploaded(string(docType))
	s.logger.Info("document uploaded",
		zap.String("company", c.CompanyName),
		zap.String("type", string(docType)),
		zap.String("path", path),
	)
	return d, nil
}

// ListDocuments returns the named customer's documents in upload order.
func (s *OnboardingService) ListDocuments(ctx context.Context, companyName string) (docs []domain.Document, err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.ListDocuments")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("list_documents", start, err) }()

	return s.documents.ListDocuments(ctx, companyName)
}

// VerifyDocument sets the verification status of the customer's document of
// the given type.
func (s *OnboardingService) VerifyDocument(ctx context.Context, companyName string, docType domain.DocumentType, status domain.DocumentStatus) (err error) {
	ctx, span := tracer.Start(ctx, "OnboardingService.VerifyDocument")
	defer span.End()
	start := time.Now()
	defer func() { s.observe("verify_document", start, err) }()

	if !docType.Valid() {
		return &domain.ErrValidation{Field: "document_type", Message: "unknown document type"}
	}
	if !status.Valid() {
		return &domain.ErrValidation{Field: "status", Message: "unknown document status"}
	}

	if err = s.documents.UpdateDocumentStatus(ctx, companyName, docType, status); err != nil {
		return err
	}
	s.cache.Delete(cacheKey(companyName))

	s.logger.Info("document verification updated",
		zap.String("company", companyName),
		zap.String("type", string(docType)),
		zap.String("status", string(status)),
	)
	return nil
}
