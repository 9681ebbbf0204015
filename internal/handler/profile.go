package handler

import (
	"net/http"
)

type registerRequest struct {
	Name string `json:"name"`
}

func (p *Portal) register(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := p.coordinator.RegisterStudent(r.Context(), principal, req.Name); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": principal.ID})
}

func (p *Portal) applyInstructor(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := p.coordinator.ApplyForInstructor(r.Context(), principal, req.Name); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": principal.ID, "status": "pending"})
}

func (p *Portal) me(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (p *Portal) logout(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	p.sessions.Drop(profile.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
