package handler

import (
	"net/http"
)

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

func (p *Portal) listMessages(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, engine.Messages())
}

func (p *Portal) sendMessage(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := p.coordinator.SendMessage(r.Context(), ident, req.ReceiverID, req.Content)
	if err != nil {
		writeError(w, r, p.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
