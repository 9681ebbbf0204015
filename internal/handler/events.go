package handler

import (
	"fmt"
	"net/http"
)

// events streams collection-change notifications over SSE. Each event
// carries only the collection name that changed; clients re-read the
// affected list endpoint.
func (p *Portal) events(w http.ResponseWriter, r *http.Request) {
	engine, _, ok := p.engine(w, r)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeErrorStatus(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates, cancel := engine.Watch()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case collection, open := <-updates:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", collection)
			flusher.Flush()
		}
	}
}
