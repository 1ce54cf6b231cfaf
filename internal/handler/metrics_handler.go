package handler

import (
	"net/http"

	"github.com/antscrawling/SupplyChainManagement/internal/service"
)

// ============================================================
// Metrics snapshot — GET /v1/metrics/onboarding
// ============================================================

func onboardingMetricsHandler(svc *service.OnboardingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/onboarding")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.OnboardingMetrics())
	}
}
