package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
	"github.com/antscrawling/SupplyChainManagement/internal/service"
)

// ============================================================
// Customers — POST /v1/customers/
// ============================================================

func createCustomerHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers/")
		defer span.End()

		var profile domain.CustomerProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		span.SetAttributes(attribute.String("customer.company", profile.CompanyName))

		c, err := svc.CreateCustomer(ctx, &profile)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// ============================================================
// Customers — POST /v1/customers/batch
// ============================================================

func createCustomerBatchHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers/batch")
		defer span.End()

		var profiles []*domain.CustomerProfile
		if err := json.NewDecoder(r.Body).Decode(&profiles); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		span.SetAttributes(attribute.Int("batch.size", len(profiles)))

		resp, err := svc.CreateCustomerBatch(ctx, profiles)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// ============================================================
// Customers — GET /v1/customers/ and GET /v1/customers/pending/
// ============================================================

func listCustomersHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/")
		defer span.End()

		customers, err := svc.ListCustomers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if customers == nil {
			customers = []domain.Customer{}
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

func listPendingCustomersHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/pending/")
		defer span.End()

		customers, err := svc.ListPendingCustomers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if customers == nil {
			customers = []domain.Customer{}
		}
		writeJSON(w, http.StatusOK, customers)
	}
}

// ============================================================
// Customers — GET /v1/customers/{companyName}
// ============================================================

func getCustomerHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{companyName}")
		defer span.End()

		name := companyNameParam(chi.URLParam(r, "companyName"))
		span.SetAttributes(attribute.String("customer.company", name))

		c, err := svc.GetCustomer(ctx, name)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// ============================================================
// Customers — PUT /v1/customers/{companyName}/status
// ============================================================

func updateCustomerStatusHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/customers/{companyName}/status")
		defer span.End()

		name := companyNameParam(chi.URLParam(r, "companyName"))
		span.SetAttributes(attribute.String("customer.company", name))

		var req domain.StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}

		c, err := svc.UpdateCustomerStatus(ctx, name, req.Status)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// ============================================================
// Customers — GET /v1/customers/{companyName}/summary
// ============================================================

func customerSummaryHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{companyName}/summary")
		defer span.End()

		name := companyNameParam(chi.URLParam(r, "companyName"))
		span.SetAttributes(attribute.String("customer.company", name))

		sum, err := svc.CustomerSummary(ctx, name)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}
