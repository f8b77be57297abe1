package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"fitout-erp/internal/app"
)

// Handler holds the ApplicationService, the chi router and the request logger.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	log       *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins []string, jwtSecret string, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
		log:       log,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// Attachments travel base64-encoded inside send requests.
		r.With(RequestBodyLimit(20<<20)).Post("/api/quotations/{id}/send", h.apiSendQuotation)

		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20)) // 1 MB

			r.Get("/api/auth/me", h.me)

			// ── Quotations ───────────────────────────────────────────────────────
			r.Post("/api/quotations/preview", h.apiPreviewQuotation)
			r.Get("/api/quotations", h.apiListQuotations)
			r.Post("/api/quotations", h.apiCreateQuotation)
			r.Get("/api/quotations/{id}", h.apiGetQuotation)
			r.Patch("/api/quotations/{id}", h.apiUpdateQuotation)
			r.Delete("/api/quotations/{id}", h.apiDeleteQuotation)
			r.Get("/api/quotations/{id}/pdf", h.apiQuotationPDF)
			r.Post("/api/quotations/{id}/lines", h.apiAddQuotationLine)
			r.Put("/api/quotations/{id}/lines/{lineID}", h.apiUpdateQuotationLine)
			r.Delete("/api/quotations/{id}/lines/{lineID}", h.apiRemoveQuotationLine)
			r.Post("/api/quotations/{id}/approve", h.apiApproveQuotation)
			r.Post("/api/quotations/{id}/reject", h.apiRejectQuotation)
			r.Post("/api/quotations/{id}/convert", h.apiConvertQuotation)

			// ── Projects ─────────────────────────────────────────────────────────
			r.Post("/api/projects", h.apiCreateProject)
			r.Get("/api/projects/{id}", h.apiGetProject)
			r.Post("/api/projects/{id}/status", h.apiChangeProjectStatus)

			// ── Vendors ──────────────────────────────────────────────────────────
			r.Get("/api/vendors", h.apiListVendors)
			r.Post("/api/vendors", h.apiCreateVendor)
			r.Get("/api/vendors/{id}", h.apiGetVendor)

			// ── Procurement ──────────────────────────────────────────────────────
			r.Post("/api/material-requests", h.apiCreateMaterialRequest)
			r.Get("/api/material-requests/{id}", h.apiGetMaterialRequest)
			r.Post("/api/material-requests/{id}/cancel", h.apiCancelMaterialRequest)
			r.Get("/api/material-requests/{id}/quotes", h.apiListVendorQuotes)
			r.Post("/api/material-requests/{id}/quotes", h.apiSubmitVendorQuote)
			r.Get("/api/material-requests/{id}/comparison", h.apiCompareQuotes)
			r.Get("/api/material-requests/{id}/comparison.xlsx", h.apiComparisonWorkbook)
			r.Post("/api/material-requests/{id}/purchase-orders", h.apiCreatePurchaseOrder)
			r.Get("/api/purchase-orders/{id}", h.apiGetPurchaseOrder)
		})
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// idParam parses the named URL parameter as a positive integer. On failure it writes
// a 400 response and returns false.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name+": "+raw, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
