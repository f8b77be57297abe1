package web

import (
	"net/http"

	"fitout-erp/internal/app"
)

// apiCreateMaterialRequest handles POST /api/material-requests.
func (h *Handler) apiCreateMaterialRequest(w http.ResponseWriter, r *http.Request) {
	var req app.CreateMaterialRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := actorFromContext(r.Context())
	mr, err := h.svc.CreateMaterialRequest(r.Context(), actor, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, mr)
}

// apiGetMaterialRequest handles GET /api/material-requests/{id}.
func (h *Handler) apiGetMaterialRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	mr, err := h.svc.GetMaterialRequest(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, mr)
}

// apiCancelMaterialRequest handles POST /api/material-requests/{id}/cancel.
func (h *Handler) apiCancelMaterialRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	mr, err := h.svc.CancelMaterialRequest(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, mr)
}

// apiListVendorQuotes handles GET /api/material-requests/{id}/quotes.
func (h *Handler) apiListVendorQuotes(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	result, err := h.svc.ListVendorQuotes(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiSubmitVendorQuote handles POST /api/material-requests/{id}/quotes.
// Body: { vendor_id, quote_number, quoted_by?, total_amount?, lines: [{item_id?, description, quantity, unit_rate, lead_time_days?}] }
func (h *Handler) apiSubmitVendorQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.SubmitVendorQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	vq, err := h.svc.SubmitVendorQuote(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, vq)
}

// apiCompareQuotes handles GET /api/material-requests/{id}/comparison.
func (h *Handler) apiCompareQuotes(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	m, err := h.svc.CompareQuotes(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, m)
}

// apiComparisonWorkbook handles GET /api/material-requests/{id}/comparison.xlsx.
func (h *Handler) apiComparisonWorkbook(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	f, err := h.svc.ComparisonWorkbook(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeFile(w, f)
}

// apiCreatePurchaseOrder handles POST /api/material-requests/{id}/purchase-orders.
// Body: { vendor_quote_id }
func (h *Handler) apiCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.CreatePurchaseOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := actorFromContext(r.Context())
	po, err := h.svc.CreatePurchaseOrder(r.Context(), id, actor, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, po)
}

// apiGetPurchaseOrder handles GET /api/purchase-orders/{id}.
func (h *Handler) apiGetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	po, err := h.svc.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, po)
}
