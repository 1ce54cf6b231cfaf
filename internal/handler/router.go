package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/infra/observability"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/resilience"
	"github.com/antscrawling/SupplyChainManagement/internal/service"
)

var tracer = otel.Tracer("handler")

// Pinger reports whether the persistence backend is reachable. The in-memory
// store satisfies it trivially; the Postgres store pings the pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc *service.OnboardingService, store Pinger, bulkhead *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(ConcurrencyLimit(bulkhead))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(store))
	r.Get("/readyz", readyzHandler(store))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Customers
		// =============================================
		r.Post("/customers/", createCustomerHandler(svc, logger))
		r.Post("/customers/batch", createCustomerBatchHandler(svc, logger))
		r.Get("/customers/", listCustomersHandler(svc, logger))
		r.Get("/customers/pending/", listPendingCustomersHandler(svc, logger))
		r.Get("/customers/{companyName}", getCustomerHandler(svc, logger))
		r.Put("/customers/{companyName}/status", updateCustomerStatusHandler(svc, logger))
		r.Get("/customers/{companyName}/summary", customerSummaryHandler(svc, logger))

		// =============================================
		// Documents
		// =============================================
		r.Post("/customers/{companyName}/documents/", uploadDocumentHandler(svc, logger))
		r.Get("/customers/{companyName}/documents/", listDocumentsHandler(svc, logger))
		r.Put("/customers/{companyName}/documents/{documentType}/verify", verifyDocumentHandler(svc, logger))

		// =============================================
		// Orders
		// =============================================
		r.Post("/orders/", createOrderHandler(svc, logger))
		r.Get("/orders/{orderID}", getOrderHandler(svc, logger))
		r.Get("/customers/{companyName}/orders/", listCustomerOrdersHandler(svc, logger))

		// =============================================
		// Metrics snapshot
		// =============================================
		r.Get("/metrics/onboarding", onboardingMetricsHandler(svc))
	})

	return r
}

// ============================================================
// Operational endpoints
// ============================================================

func healthzHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC().Format(time.RFC3339)
		status := "healthy"
		storeStatus := "healthy"
		if err := store.Ping(r.Context()); err != nil {
			status = "degraded"
			storeStatus = "unhealthy"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       status,
			"store":        storeStatus,
			"last_checked": now,
		})
	}
}

func readyzHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
