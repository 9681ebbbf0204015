package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type approveRequest struct {
	UserID string `json:"userId"`
}

func (p *Portal) listApplications(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Applications())
}

func (p *Portal) approveApplication(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req approveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := p.coordinator.ApproveInstructorApplication(r.Context(), ident, id, req.UserID); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	// Approved applicants pick up their new role on the next request.
	p.sessions.Drop(req.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "approved"})
}

func (p *Portal) rejectApplication(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id := chi.URLParam(r, "id")
	if err := p.coordinator.RejectInstructorApplication(r.Context(), ident, id); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "rejected"})
}
