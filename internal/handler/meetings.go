package handler

import (
	"net/http"

	"github.com/nazmulrahman/young-star-app/internal/model"
)

func (p *Portal) listMeetings(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Meetings())
}

func (p *Portal) scheduleMeeting(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var input model.ScheduleMeetingInput
	if !decodeBody(w, r, &input) {
		return
	}
	id, err := p.coordinator.ScheduleMeeting(r.Context(), ident, input)
	if err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
