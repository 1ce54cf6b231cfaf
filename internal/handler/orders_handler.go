package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
	"github.com/antscrawling/SupplyChainManagement/internal/service"
)

// ============================================================
// Orders — POST /v1/orders/
// ============================================================

func createOrderHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/orders/")
		defer span.End()

		var create domain.OrderCreate
		if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}
		span.SetAttributes(attribute.String("customer.id", create.CustomerID.String()))

		o, err := svc.CreateOrder(ctx, &create)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, o)
	}
}

// ============================================================
// Orders — GET /v1/orders/{orderID}
// ============================================================

func getOrderHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/orders/{orderID}")
		defer span.End()

		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid order id")
			return
		}
		span.SetAttributes(attribute.String("order.id", id.String()))

		o, err := svc.GetOrder(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

// ============================================================
// Orders — GET /v1/customers/{companyName}/orders/
// ============================================================

func listCustomerOrdersHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{companyName}/orders/")
		defer span.End()

		name := companyNameParam(chi.URLParam(r, "companyName"))
		span.SetAttributes(attribute.String("customer.company", name))

		orders, err := svc.ListCustomerOrders(ctx, name)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}
