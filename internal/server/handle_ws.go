package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"nhooyr.io/websocket"

	"github.com/pairplay/memomatch/internal/room"
)

// handleWS streams the same document snapshots as the SSE endpoint over a
// WebSocket, for clients whose networking stack handles sockets better than
// event streams.
func handleWS(logger *slog.Logger, coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ch, cancel, err := coord.Watch(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		defer cancel()

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()

		write := func(doc room.Room) error {
			data, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			return conn.Write(ctx, websocket.MessageText, data)
		}

		if err := write(doc); err != nil {
			return
		}
		lastVersion := doc.Version

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case doc := <-ch:
				if doc.Version <= lastVersion {
					continue
				}
				lastVersion = doc.Version
				if err := write(doc); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}
