package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================
// Customer
// ============================================================

// CustomerType classifies where a customer sits in the supply chain.
type CustomerType string

const (
	CustomerTypeManufacturer CustomerType = "manufacturer"
	CustomerTypeDistributor  CustomerType = "distributor"
	CustomerTypeRetailer     CustomerType = "retailer"
	CustomerTypeSupplier     CustomerType = "supplier"
)

// Valid reports whether t is one of the known customer types.
func (t CustomerType) Valid() bool {
	switch t {
	case CustomerTypeManufacturer, CustomerTypeDistributor, CustomerTypeRetailer, CustomerTypeSupplier:
		return true
	}
	return false
}

// OnboardingStatus is the lifecycle stage of a customer record.
type OnboardingStatus string

const (
	OnboardingPending    OnboardingStatus = "pending"
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingCompleted  OnboardingStatus = "completed"
	OnboardingRejected   OnboardingStatus = "rejected"
)

// Valid reports whether s is one of the known onboarding statuses.
func (s OnboardingStatus) Valid() bool {
	switch s {
	case OnboardingPending, OnboardingInProgress, OnboardingCompleted, OnboardingRejected:
		return true
	}
	return false
}

// Customer is a persisted supply-chain customer. Company name is the natural
// unique key (case-insensitive); ID is a surrogate referenced by orders.
// Documents is always present (possibly empty), never attached lazily.
type Customer struct {
	ID                  uuid.UUID        `json:"id"`
	CompanyName         string           `json:"company_name"`
	CustomerType        CustomerType     `json:"customer_type"`
	TaxID               string           `json:"tax_id"`
	RegistrationDate    time.Time        `json:"registration_date"`
	ContactEmail        string           `json:"contact_email"`
	ContactPhone        string           `json:"contact_phone"`
	Address             string           `json:"address"`
	CreditScore         *float64         `json:"credit_score,omitempty"`
	ApprovedCreditLimit *decimal.Decimal `json:"approved_credit_limit,omitempty"`
	OnboardingStatus    OnboardingStatus `json:"onboarding_status"`
	Documents           []Document       `json:"documents"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// CustomerProfile is the creation payload. Any onboarding status supplied by
// the caller is ignored: new customers always start pending.
type CustomerProfile struct {
	CompanyName         string           `json:"company_name"`
	CustomerType        CustomerType     `json:"customer_type"`
	TaxID               string           `json:"tax_id"`
	RegistrationDate    time.Time        `json:"registration_date"`
	ContactEmail        string           `json:"contact_email"`
	ContactPhone        string           `json:"contact_phone"`
	Address             string           `json:"address"`
	CreditScore         *float64         `json:"credit_score,omitempty"`
	ApprovedCreditLimit *decimal.Decimal `json:"approved_credit_limit,omitempty"`
	Status              string           `json:"status,omitempty"` // accepted and discarded
}

var (
	phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// MaxCreditScore is the upper bound of the accepted credit score range.
const MaxCreditScore = 1850

// Validate checks every field of the profile and returns an ErrValidation
// describing the first violation found.
func (p *CustomerProfile) Validate() error {
	name := strings.TrimSpace(p.CompanyName)
	if name == "" || len(name) > 100 {
		return &ErrValidation{Field: "company_name", Message: "must be between 1 and 100 characters"}
	}
	if !p.CustomerType.Valid() {
		return &ErrValidation{Field: "customer_type", Message: fmt.Sprintf("unknown customer type %q", p.CustomerType)}
	}
	if p.TaxID == "" || len(p.TaxID) > 20 {
		return &ErrValidation{Field: "tax_id", Message: "must be between 1 and 20 characters"}
	}
	if !emailPattern.MatchString(p.ContactEmail) {
		return &ErrValidation{Field: "contact_email", Message: "not a valid email address"}
	}
	if !phonePattern.MatchString(p.ContactPhone) {
		return &ErrValidation{Field: "contact_phone", Message: "must be 9 to 15 digits, optionally prefixed with +1"}
	}
	if p.Address == "" || len(p.Address) > 200 {
		return &ErrValidation{Field: "address", Message: "must be between 1 and 200 characters"}
	}
	if p.CreditScore != nil && (*p.CreditScore < 0 || *p.CreditScore > MaxCreditScore) {
		return &ErrValidation{Field: "credit_score", Message: fmt.Sprintf("must be between 0 and %d", MaxCreditScore)}
	}
	if p.ApprovedCreditLimit != nil && p.ApprovedCreditLimit.IsNegative() {
		return &ErrValidation{Field: "approved_credit_limit", Message: "must not be negative"}
	}
	return nil
}

// NewCustomer builds a Customer from a validated profile. The onboarding
// status is always pending here, regardless of what the profile carried.
func NewCustomer(p *CustomerProfile, now time.Time) *Customer {
	reg := p.RegistrationDate
	if reg.IsZero() {
		reg = now
	}
	return &Customer{
		ID:                  uuid.New(),
		CompanyName:         strings.TrimSpace(p.CompanyName),
		CustomerType:        p.CustomerType,
		TaxID:               p.TaxID,
		RegistrationDate:    reg,
		ContactEmail:        p.ContactEmail,
		ContactPhone:        p.ContactPhone,
		Address:             p.Address,
		CreditScore:         p.CreditScore,
		ApprovedCreditLimit: p.ApprovedCreditLimit,
		OnboardingStatus:    OnboardingPending,
		Documents:           []Document{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// BatchCreateResponse reports the outcome of a batch customer creation.
type BatchCreateResponse struct {
	Created   int        `json:"created"`
	Customers []Customer `json:"customers"`
}

// StatusUpdateRequest is the body of PUT /customers/{name}/status.
type StatusUpdateRequest struct {
	Status OnboardingStatus `json:"status"`
}

// CustomerSummary aggregates a customer with its orders and documents.
type CustomerSummary struct {
	Customer  *Customer  `json:"customer"`
	Orders    []Order    `json:"orders"`
	Documents []Document `json:"documents"`
}
