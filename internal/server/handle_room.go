package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pairplay/memomatch/internal/room"
)

type CreateRoomRequest struct {
	Difficulty string `json:"difficulty"`
	PlayerID   string `json:"playerId,omitempty"`
}

type JoinRoomRequest struct {
	PlayerID string `json:"playerId,omitempty"`
}

type AnswerRequest struct {
	PlayerID string   `json:"playerId"`
	Items    []string `json:"items"`
}

type LeaveRequest struct {
	PlayerID string `json:"playerId"`
}

// RoomResponse carries the room document plus the caller's participant id,
// echoed back (or minted) so clients can thread it through later calls.
type RoomResponse struct {
	Room     room.Room `json:"room"`
	PlayerID string    `json:"playerId,omitempty"`
}

func handleCreateRoom(coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		playerID := strings.TrimSpace(req.PlayerID)
		if playerID == "" {
			playerID = uuid.NewString()
		}

		doc, err := coord.Create(r.Context(), room.Difficulty(req.Difficulty), playerID)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, RoomResponse{Room: doc, PlayerID: playerID})
	}
}

func handleGetRoom(coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := coord.Get(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeRoomError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func handleJoinRoom(coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JoinRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		playerID := strings.TrimSpace(req.PlayerID)
		if playerID == "" {
			playerID = uuid.NewString()
		}

		doc, err := coord.Join(r.Context(), chi.URLParam(r, "code"), playerID)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, RoomResponse{Room: doc, PlayerID: playerID})
	}
}

func handleSubmitAnswer(coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.PlayerID) == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}

		doc, err := coord.SubmitAnswer(r.Context(), chi.URLParam(r, "code"), req.PlayerID, req.Items)
		if err != nil {
			writeRoomError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, RoomResponse{Room: doc, PlayerID: req.PlayerID})
	}
}

func handleLeaveRoom(coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LeaveRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.PlayerID) == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}

		if err := coord.Leave(r.Context(), chi.URLParam(r, "code"), req.PlayerID); err != nil {
			writeRoomError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// VocabularyResponse lists every selectable item identifier.
type VocabularyResponse struct {
	Items []string `json:"items"`
}

func handleVocabulary(coord *room.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, VocabularyResponse{Items: coord.Vocabulary()})
	}
}

// writeRoomError maps the coordinator's error taxonomy onto HTTP statuses.
// Every failure gets a specific status and message; nothing is dropped
// silently.
func writeRoomError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, room.ErrRoomFull):
		writeError(w, http.StatusConflict, "room is full")
	case errors.Is(err, room.ErrInvalidPhase):
		writeError(w, http.StatusConflict, "operation not allowed in current phase")
	case errors.Is(err, room.ErrSelfJoin):
		writeError(w, http.StatusConflict, "cannot join a room you host")
	case errors.Is(err, room.ErrConflict):
		writeError(w, http.StatusConflict, "room was updated concurrently, try again")
	case errors.Is(err, room.ErrNotAParticipant):
		writeError(w, http.StatusForbidden, "not a participant of this room")
	case errors.Is(err, room.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "submission contains an unknown item")
	case errors.Is(err, room.ErrUnknownDifficulty):
		writeError(w, http.StatusBadRequest, "difficulty must be easy, medium or hard")
	case errors.Is(err, room.ErrResourceExhausted):
		writeError(w, http.StatusServiceUnavailable, "no room codes available, try again later")
	case errors.Is(err, room.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
