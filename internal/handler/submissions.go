package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nazmulrahman/young-star-app/internal/model"
)

type submitRequest struct {
	StudentID string `json:"studentId"`
	Code      string `json:"code"`
}

type gradeRequest struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}

func (p *Portal) listSubmissions(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Submissions())
}

func (p *Portal) addSubmission(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req submitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	// Students submit as themselves unless the body names someone else
	// (which the gate then rejects).
	studentID := req.StudentID
	if studentID == "" {
		studentID = ident.ID
	}
	taskID := chi.URLParam(r, "id")
	if err := p.coordinator.AddSubmission(r.Context(), ident, taskID, studentID, req.Code); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": model.SubmissionID(taskID, studentID)})
}

func (p *Portal) gradeSubmission(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req gradeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := p.coordinator.GradeSubmission(r.Context(), ident, id, req.Grade, req.Feedback); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
