package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pairplay/memomatch/internal/room"
)

func handleEvents(coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		doc, ch, cancel, err := coord.Watch(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		sendSnapshot(w, doc)
		flusher.Flush()
		lastVersion := doc.Version

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case doc := <-ch:
				// Subscribers see a total order of versions; anything at or
				// below what we already sent is a stale fan-out duplicate.
				if doc.Version <= lastVersion {
					continue
				}
				lastVersion = doc.Version
				sendSnapshot(w, doc)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

func sendSnapshot(w http.ResponseWriter, doc room.Room) {
	data, _ := json.Marshal(doc)
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
}
