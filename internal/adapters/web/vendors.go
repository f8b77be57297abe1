package web

import (
	"net/http"

	"fitout-erp/internal/app"
)

// apiListVendors handles GET /api/vendors.
func (h *Handler) apiListVendors(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListVendors(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Vendors)
}

// apiCreateVendor handles POST /api/vendors.
// Body: { code, name, contact_person?, email?, phone?, address? }
func (h *Handler) apiCreateVendor(w http.ResponseWriter, r *http.Request) {
	var req app.CreateVendorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		writeError(w, r, "code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	v, err := h.svc.CreateVendor(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, v)
}

// apiGetVendor handles GET /api/vendors/{id}.
func (h *Handler) apiGetVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	v, err := h.svc.GetVendor(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, v)
}
