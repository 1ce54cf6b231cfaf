package domain

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================
// Documents
// ============================================================

// DocumentType identifies the category of an uploaded onboarding document.
type DocumentType string

const (
	DocumentTaxCertificate  DocumentType = "tax_certificate"
	DocumentBusinessLicense DocumentType = "business_license"
	DocumentCreditReport    DocumentType = "credit_report"
	DocumentBankStatement   DocumentType = "bank_statement"
)

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTaxCertificate, DocumentBusinessLicense, DocumentCreditReport, DocumentBankStatement:
		return true
	}
	return false
}

// DocumentStatus is the verification state of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

// Valid reports whether s is one of the known document statuses.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentPending, DocumentVerified, DocumentRejected:
		return true
	}
	return false
}

// Document records one stored file for a customer. The verification workflow
// assumes at most one document per (customer, type), but uploads do not
// enforce that.
type Document struct {
	ID           uuid.UUID      `json:"id"`
	CustomerID   uuid.UUID      `json:"customer_id"`
	DocumentType DocumentType   `json:"document_type"`
	FilePath     string         `json:"file_path"`
	UploadDate   time.Time      `json:"upload_date"`
	Status       DocumentStatus `json:"status"`
}

// NewDocument builds a pending Document for an uploaded file.
func NewDocument(customerID uuid.UUID, docType DocumentType, filePath string, now time.Time) *Document {
	return &Document{
		ID:           uuid.New(),
		CustomerID:   customerID,
		DocumentType: docType,
		FilePath:     filePath,
		UploadDate:   now,
		Status:       DocumentPending,
	}
}

// DocumentVerifyRequest is the body of PUT .../documents/{type}/verify.
type DocumentVerifyRequest struct {
	Status DocumentStatus `json:"status"`
}
