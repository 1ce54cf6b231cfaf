package domain

// OnboardingMetrics is the snapshot returned by GET /v1/metrics/onboarding.
// Values are cumulative since process start.
type OnboardingMetrics struct {
	TotalRequests     int64   `json:"total_requests"`
	ErrorRate         float64 `json:"error_rate"`
	CacheHitRate      float64 `json:"cache_hit_rate"`
	CustomersCreated  int64   `json:"customers_created"`
	OrdersCreated     int64   `json:"orders_created"`
	DocumentsUploaded int64   `json:"documents_uploaded"`
	Period            string  `json:"period"`
}
