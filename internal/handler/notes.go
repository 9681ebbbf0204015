package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nazmulrahman/young-star-app/internal/model"
)

func (p *Portal) listNotes(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Notes())
}

func (p *Portal) addNote(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var input model.AddNoteInput
	if !decodeBody(w, r, &input) {
		return
	}
	id, err := p.coordinator.AddNote(r.Context(), ident, input)
	if err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (p *Portal) deleteNote(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	id := chi.URLParam(r, "id")
	if err := p.coordinator.DeleteNote(r.Context(), ident, id); err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}
