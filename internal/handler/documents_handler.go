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

// maxUploadBytes caps uploaded document size at 32 MiB.
const maxUploadBytes = 32 << 20

// ============================================================
// Documents — POST /v1/customers/{companyName}/documents/
// ============================================================

// uploadDocumentHandler accepts a multipart form with a "file" part and a
// "document_type" field.
func uploadDocumentHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers/{companyName}/documents/")
		defer span.End()

		name := companyNameParam(chi.URLParam(r, "companyName"))
		span.SetAttributes(attribute.String("customer.company", name))

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid multipart form")
			return
		}

		docType := domain.DocumentType(r.FormValue("document_type"))
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "a file is required")
			return
		}
		defer file.Close()

		d, err := svc.UploadDocument(ctx, name, docType, header.Filename, file)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

// ============================================================
// Documents — GET /v1/customers/{companyName}/documents/
// ============================================================

func listDocumentsHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/customers/{companyName}/documents/")
		defer span.End()

		name := companyNameParam(chi.URLParam(r, "companyName"))

		docs, err := svc.ListDocuments(ctx, name)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if docs == nil {
			docs = []domain.Document{}
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

// ============================================================
// Documents — PUT /v1/customers/{companyName}/documents/{documentType}/verify
// ============================================================

func verifyDocumentHandler(svc *service.OnboardingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/customers/{companyName}/documents/{documentType}/verify")
		defer span.End()

		name := companyNameParam(chi.URLParam(r, "companyName"))
		docType := domain.DocumentType(chi.URLParam(r, "documentType"))
		span.SetAttributes(
			attribute.String("customer.company", name),
			attribute.String("document.type", string(docType)),
		)

		var req domain.DocumentVerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid request body")
			return
		}

		if err := svc.VerifyDocument(ctx, name, docType, req.Status); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"company_name":  name,
			"document_type": string(docType),
			"status":        string(req.Status),
		})
	}
}
