package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// Metrics holds all Prometheus metrics for the onboarding service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	storeErrors       *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	customersCreated  prometheus.Counter
	ordersCreated     prometheus.Counter
	documentsUploaded *prometheus.CounterVec
	requestsTotal     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "onboarding_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_store_errors_total",
				Help: "Total unexpected errors from the persistence backend.",
			},
			[]string{"store"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		customersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "onboarding_customers_created_total",
				Help: "Total customers created (including batch members).",
			},
		),
		ordersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "onboarding_orders_created_total",
				Help: "Total orders created.",
			},
		),
		documentsUploaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_documents_uploaded_total",
				Help: "Total documents uploaded, by type.",
			},
			[]string{"type"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the unexpected-store-error counter.
func (m *Metrics) IncrStoreError(store string) {
	m.storeErrors.WithLabelValues(store).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// AddCustomersCreated records n newly created customers.
func (m *Metrics) AddCustomersCreated(n int) {
	m.customersCreated.Add(float64(n))
}

// IncrOrderCreated increments the created-orders counter.
func (m *Metrics) IncrOrderCreated() {
	m.ordersCreated.Inc()
}

// IncrDocumentUploaded increments the uploaded-documents counter for a type.
func (m *Metrics) IncrDocumentUploaded(docType string) {
	m.documentsUploaded.WithLabelValues(docType).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetOnboardingSnapshot returns a snapshot of service metrics suitable for
// the GET /v1/metrics/onboarding endpoint.
func (m *Metrics) GetOnboardingSnapshot() *domain.OnboardingMetrics {
	// Prometheus counters expose cumulative values.
	totalRequests := getCounterValue(m.requestsTotal, "success") +
		getCounterValue(m.requestsTotal, "error")
	errorCount := getCounterValue(m.requestsTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "customer")
	cacheMisses := getCounterValue(m.cacheMisses, "customer")

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if totalRequests > 0 {
		errorRate = errorCount / totalRequests
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	documentsUploaded := float64(0)
	for _, t := range []domain.DocumentType{
		domain.DocumentTaxCertificate,
		domain.DocumentBusinessLicense,
		domain.DocumentCreditReport,
		domain.DocumentBankStatement,
	} {
		documentsUploaded += getCounterValue(m.documentsUploaded, string(t))
	}

	return &domain.OnboardingMetrics{
		TotalRequests:     int64(totalRequests),
		ErrorRate:         errorRate,
		CacheHitRate:      cacheHitRate,
		CustomersCreated:  int64(getPlainCounterValue(m.customersCreated)),
		OrdersCreated:     int64(getPlainCounterValue(m.ordersCreated)),
		DocumentsUploaded: int64(documentsUploaded),
		Period:            "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return getPlainCounterValue(cv.WithLabelValues(label))
}

func getPlainCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
