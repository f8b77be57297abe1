package web

import (
	"net/http"

	"fitout-erp/internal/app"
)

// apiCreateProject handles POST /api/projects.
func (h *Handler) apiCreateProject(w http.ResponseWriter, r *http.Request) {
	var req app.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := actorFromContext(r.Context())
	p, err := h.svc.CreateProject(r.Context(), actor, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeCreated(w, p)
}

// apiGetProject handles GET /api/projects/{id}.
func (h *Handler) apiGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	p, err := h.svc.GetProject(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// apiChangeProjectStatus handles POST /api/projects/{id}/status.
// Body: { status }
func (h *Handler) apiChangeProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req app.ChangeProjectStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.ChangeProjectStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}
