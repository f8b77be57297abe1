package web

import (
	"net/http"

	"fitout-erp/internal/app"
)

// apiPreviewQuotation handles POST /api/quotations/preview. Nothing is stored.
func (h *Handler) apiPreviewQuotation(w http.ResponseWriter, r *http.Request) {
	var req app.PriceQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, h.svc.PriceQuotation(req))
}

// apiListQuotations handles GET /api/quotations?status=SENT.
func (h *Handler) apiListQuotations(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListQuotations(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Quotations)
}

// apiCreateQuotation handles POST /api/quotations.
func (h *Handler) apiCreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req app.CreateQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := actorFromContext(r.Context())
	q, err := h.svc.CreateQuotation(r.Context(), actor, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, q)
}

// apiGetQuotation handles GET /api/quotations/{id}.
func (h *Handler) apiGetQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	q, err := h.svc.GetQuotation(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiUpdateQuotation handles PATCH /api/quotations/{id}.
func (h *Handler) apiUpdateQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.UpdateQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.UpdateQuotation(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiDeleteQuotation handles DELETE /api/quotations/{id}.
func (h *Handler) apiDeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteQuotation(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiQuotationPDF handles GET /api/quotations/{id}/pdf.
func (h *Handler) apiQuotationPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	f, err := h.svc.QuotationPDF(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeFile(w, f)
}

// apiAddQuotationLine handles POST /api/quotations/{id}/lines.
func (h *Handler) apiAddQuotationLine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.LineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.AddQuotationLine(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, q)
}

// apiUpdateQuotationLine handles PUT /api/quotations/{id}/lines/{lineID}.
func (h *Handler) apiUpdateQuotationLine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	lineID, ok := idParam(w, r, "lineID")
	if !ok {
		return
	}
	var req app.LineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.svc.UpdateQuotationLine(r.Context(), id, lineID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiRemoveQuotationLine handles DELETE /api/quotations/{id}/lines/{lineID}.
func (h *Handler) apiRemoveQuotationLine(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	lineID, ok := idParam(w, r, "lineID")
	if !ok {
		return
	}
	q, err := h.svc.RemoveQuotationLine(r.Context(), id, lineID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiSendQuotation handles POST /api/quotations/{id}/send.
// Body is optional: { notify?, recipients?, attachment?: {filename, mime_type, data(base64)} }
func (h *Handler) apiSendQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.SendQuotationRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := actorFromContext(r.Context())
	q, err := h.svc.SendQuotation(r.Context(), id, actor, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiApproveQuotation handles POST /api/quotations/{id}/approve.
func (h *Handler) apiApproveQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	actor, _ := actorFromContext(r.Context())
	q, err := h.svc.ApproveQuotation(r.Context(), id, actor)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiRejectQuotation handles POST /api/quotations/{id}/reject.
// Body: { reason }
func (h *Handler) apiRejectQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.RejectQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := actorFromContext(r.Context())
	q, err := h.svc.RejectQuotation(r.Context(), id, actor, req.Reason)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, q)
}

// apiConvertQuotation handles POST /api/quotations/{id}/convert.
// Body: { project_name, project_type, start_date?, sub_groups?, notify?, recipients? }
func (h *Handler) apiConvertQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.ConvertQuotationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := actorFromContext(r.Context())
	result, err := h.svc.ConvertQuotation(r.Context(), id, actor, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, result)
}
