package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addStudentRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (p *Portal) listUsers(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Users())
}

func (p *Portal) listStudents(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Students())
}

func (p *Portal) addStudent(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req addStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := p.coordinator.AddStudent(r.Context(), ident, req.UserID, req.Name, req.Email); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.UserID})
}

func (p *Portal) deleteStudent(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	studentID := chi.URLParam(r, "id")
	if err := p.coordinator.DeleteStudentProfile(r.Context(), ident, studentID); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	p.sessions.Drop(studentID)
	writeJSON(w, http.StatusOK, map[string]string{"id": studentID})
}
