package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
	"github.com/antscrawling/SupplyChainManagement/internal/handler"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/cache"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/filestore"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/memstore"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/observability"
	"github.com/antscrawling/SupplyChainManagement/internal/infra/resilience"
	"github.com/antscrawling/SupplyChainManagement/internal/service"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	store := memstore.New()
	files, err := filestore.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("filestore: %v", err)
	}

	metrics := observability.NewMetrics()
	svc := service.NewOnboardingService(
		store, store, store, files,
		cache.New[*domain.Customer](5*time.Minute),
		metrics,
		logger,
	)
	return handler.NewRouter(svc, store, resilience.NewBulkhead(8), metrics, logger)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func customerPayload(name string) map[string]any {
	return map[string]any{
		"company_name":  name,
		"customer_type": "supplier",
		"tax_id":        "TX-42",
		"contact_email": "sales@example.com",
		"contact_phone": "+15550001111",
		"address":       "8 Dock Road",
	}
}

func TestHealthz(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCreateCustomer(t *testing.T) {
	router := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("Acme Supplies"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	var c domain.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if c.OnboardingStatus != domain.OnboardingPending {
		t.Errorf("expected pending, got %s", c.OnboardingStatus)
	}
	if c.Documents == nil {
		t.Error("expected documents to be present in the response")
	}
}

func TestCreateCustomer_DuplicateIs400(t *testing.T) {
	router := newRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("Acme Supplies")); rec.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("acme supplies"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
}

func TestCreateCustomer_ValidationIs422(t *testing.T) {
	router := newRouter(t)

	payload := customerPayload("Acme Supplies")
	payload["contact_email"] = "not-an-email"

	rec := doJSON(t, router, http.MethodPost, "/v1/customers/", payload)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", rec.Code, rec.Body)
	}
}

func TestBatchCreate_RepostedBatchNamesEveryDuplicate(t *testing.T) {
	router := newRouter(t)

	batch := []map[string]any{customerPayload("Globex"), customerPayload("Initech")}
	if rec := doJSON(t, router, http.MethodPost, "/v1/customers/batch", batch); rec.Code != http.StatusCreated {
		t.Fatalf("first batch failed: %d: %s", rec.Code, rec.Body)
	}

	rec := doJSON(t, router, http.MethodPost, "/v1/customers/batch", batch)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
	for _, name := range []string{"Globex", "Initech"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("expected error to name %s: %s", name, rec.Body)
		}
	}

	// The rejected re-post must not have created anything new.
	list := doJSON(t, router, http.MethodGet, "/v1/customers/", nil)
	var customers []domain.Customer
	if err := json.Unmarshal(list.Body.Bytes(), &customers); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(customers) != 2 {
		t.Errorf("expected 2 customers, got %d", len(customers))
	}
}

func TestGetCustomer_NameWithSpaces(t *testing.T) {
	router := newRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("Acme Supplies")); rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/customers/"+url.PathEscape("Acme Supplies"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/customers/"+url.PathEscape("Nobody Inc"), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateStatusAndPendingList(t *testing.T) {
	router := newRouter(t)

	for _, name := range []string{"Pending One", "Done Co", "Pending Two"} {
		if rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload(name)); rec.Code != http.StatusCreated {
			t.Fatalf("create %s failed: %d", name, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodPut, "/v1/customers/"+url.PathEscape("Done Co")+"/status",
		map[string]string{"status": "completed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodPut, "/v1/customers/"+url.PathEscape("Done Co")+"/status",
		map[string]string{"status": "shipped"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown status, got %d", rec.Code)
	}

	pending := doJSON(t, router, http.MethodGet, "/v1/customers/pending/", nil)
	var customers []domain.Customer
	if err := json.Unmarshal(pending.Body.Bytes(), &customers); err != nil {
		t.Fatalf("decode pending list: %v", err)
	}
	if len(customers) != 2 {
		t.Errorf("expected 2 pending customers, got %d", len(customers))
	}
}

func TestOrderFlow(t *testing.T) {
	router := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("Acme Supplies"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}
	var c domain.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode customer: %v", err)
	}

	rec = doJSON(t, router, http.MethodPost, "/v1/orders/", map[string]any{
		"customer_id": c.ID,
		"items": []map[string]any{
			{"product_name": "Widget", "quantity": 10, "unit_price": "120.25"},
			{"product_name": "Gadget", "quantity": 5, "unit_price": "249.60"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var o domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &o); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if o.TotalAmount.String() != "2450.5" && o.TotalAmount.String() != "2450.50" {
		t.Errorf("expected total 2450.50, got %s", o.TotalAmount)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/orders/%s", o.ID), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/customers/"+url.PathEscape("Acme Supplies")+"/orders/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var orders []domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("expected 1 order, got %d", len(orders))
	}
}

func TestOrder_UnknownCustomerIs404(t *testing.T) {
	router := newRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/orders/", map[string]any{
		"customer_id": "3f1d0f1e-9f5a-4a7e-8c8e-2f62c1f6d111",
		"items": []map[string]any{
			{"product_name": "Widget", "quantity": 1, "unit_price": "10"},
		},
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body)
	}
}

func uploadDocument(t *testing.T, router http.Handler, company, docType, filename string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("document_type", docType); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("%PDF-1.7")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost,
		"/v1/customers/"+url.PathEscape(company)+"/documents/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDocumentFlow(t *testing.T) {
	router := newRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("Acme Supplies")); rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}

	rec := uploadDocument(t, router, "Acme Supplies", "tax_certificate", "certificate.pdf")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	if rec := uploadDocument(t, router, "Acme Supplies", "passport", "p.pdf"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown type, got %d", rec.Code)
	}
	if rec := uploadDocument(t, router, "Nobody Inc", "tax_certificate", "c.pdf"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown customer, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut,
		"/v1/customers/"+url.PathEscape("Acme Supplies")+"/documents/tax_certificate/verify",
		map[string]string{"status": "verified"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/customers/"+url.PathEscape("Acme Supplies")+"/documents/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var docs []domain.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &docs); err != nil {
		t.Fatalf("decode documents: %v", err)
	}
	if len(docs) != 1 || docs[0].Status != domain.DocumentVerified {
		t.Errorf("expected one verified document, got %+v", docs)
	}
}

func TestSummary(t *testing.T) {
	router := newRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("Acme Supplies")); rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/customers/"+url.PathEscape("Acme Supplies")+"/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var sum domain.CustomerSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Customer == nil || sum.Orders == nil || sum.Documents == nil {
		t.Errorf("expected fully populated summary, got %+v", sum)
	}
}

func TestOnboardingMetricsSnapshot(t *testing.T) {
	router := newRouter(t)

	if rec := doJSON(t, router, http.MethodPost, "/v1/customers/", customerPayload("Acme Supplies")); rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/metrics/onboarding", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap domain.OnboardingMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.CustomersCreated != 1 {
		t.Errorf("expected 1 customer created, got %d", snap.CustomersCreated)
	}
}
