package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nazmulrahman/young-star-app/internal/model"
)

func (p *Portal) listTasks(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Tasks())
}

func (p *Portal) createTask(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var input model.CreateTaskInput
	if !decodeBody(w, r, &input) {
		return
	}
	id, err := p.coordinator.CreateTask(r.Context(), ident, input)
	if err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (p *Portal) updateTask(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var input model.UpdateTaskInput
	if !decodeBody(w, r, &input) {
		return
	}
	if err := p.coordinator.UpdateTask(r.Context(), ident, chi.URLParam(r, "id"), input); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
}
