package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/pairplay/memomatch/internal/room"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coord := room.NewCoordinator(room.NewMemoryStore(), room.NewBroker(), logger, 0)
	t.Cleanup(coord.Close)

	r := chi.NewRouter()
	addRoutes(r, logger, coord, nil, nil, 0)
	return r
}

func createRoom(t *testing.T, r *chi.Mux, difficulty string) RoomResponse {
	t.Helper()

	body, _ := json.Marshal(CreateRoomRequest{Difficulty: difficulty})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp RoomResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func joinRoom(t *testing.T, r *chi.Mux, code string) RoomResponse {
	t.Helper()

	body, _ := json.Marshal(JoinRoomRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+code+"/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp RoomResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func TestCreateRoom(t *testing.T) {
	r := newTestRouter(t)

	resp := createRoom(t, r, "easy")

	if len(resp.Room.Code) != 4 {
		t.Errorf("code = %q, want 4 characters", resp.Room.Code)
	}
	if resp.Room.Phase != room.PhaseLobby {
		t.Errorf("phase = %q, want lobby", resp.Room.Phase)
	}
	if resp.PlayerID == "" {
		t.Error("expected a minted playerId")
	}
	if resp.Room.HostID != resp.PlayerID {
		t.Errorf("hostId = %q, want the caller's playerId %q", resp.Room.HostID, resp.PlayerID)
	}
}

func TestCreateRoomKeepsSuppliedPlayerID(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(CreateRoomRequest{Difficulty: "medium", PlayerID: "host-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp RoomResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.PlayerID != "host-1" {
		t.Errorf("playerId = %q, want host-1", resp.PlayerID)
	}
}

func TestCreateRoomUnknownDifficulty(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(CreateRoomRequest{Difficulty: "nightmare"})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateRoomBadBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetRoom(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+created.Room.Code, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var doc room.Room
	json.NewDecoder(w.Body).Decode(&doc)
	if doc.Code != created.Room.Code {
		t.Errorf("code = %q, want %q", doc.Code, created.Room.Code)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/ZZZZ", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestJoinRoomStartsMemorizing(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")

	resp := joinRoom(t, r, created.Room.Code)

	if resp.Room.Phase != room.PhaseMemorizing {
		t.Errorf("phase = %q, want memorizing", resp.Room.Phase)
	}
	if len(resp.Room.ItemSet) != 6 {
		t.Errorf("item set size = %d, want 6 on easy", len(resp.Room.ItemSet))
	}
	if resp.Room.PhaseDeadline == nil {
		t.Error("expected a phase deadline")
	}
	if resp.PlayerID == "" || resp.PlayerID == created.PlayerID {
		t.Errorf("guest playerId = %q, want a fresh id", resp.PlayerID)
	}
}

func TestJoinRoomAcceptsLowercaseCode(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")

	resp := joinRoom(t, r, strings.ToLower(created.Room.Code))
	if resp.Room.Code != created.Room.Code {
		t.Errorf("code = %q, want %q", resp.Room.Code, created.Room.Code)
	}
}

func TestJoinOwnRoom(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")

	body, _ := json.Marshal(JoinRoomRequest{PlayerID: created.PlayerID})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.Room.Code+"/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJoinFullRoom(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")
	joinRoom(t, r, created.Room.Code)

	body, _ := json.Marshal(JoinRoomRequest{PlayerID: "third"})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.Room.Code+"/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	r := newTestRouter(t)

	body, _ := json.Marshal(JoinRoomRequest{})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/ZZZZ/join", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAnswerUnknownItem(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")
	joinRoom(t, r, created.Room.Code)

	body, _ := json.Marshal(AnswerRequest{PlayerID: created.PlayerID, Items: []string{"not-a-real-item"}})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.Room.Code+"/answer", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnswerOutsideSelectingPhase(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")
	guest := joinRoom(t, r, created.Room.Code)

	// The room is memorizing; a submission with valid items must be refused.
	body, _ := json.Marshal(AnswerRequest{PlayerID: created.PlayerID, Items: guest.Room.ItemSet[:2]})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.Room.Code+"/answer", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnswerRequiresPlayerID(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")

	body, _ := json.Marshal(AnswerRequest{Items: []string{"apple"}})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.Room.Code+"/answer", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLeaveNotParticipant(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")

	body, _ := json.Marshal(LeaveRequest{PlayerID: "stranger"})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.Room.Code+"/leave", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLeaveBeforeJoinRemovesRoom(t *testing.T) {
	r := newTestRouter(t)
	created := createRoom(t, r, "easy")

	body, _ := json.Marshal(LeaveRequest{PlayerID: created.PlayerID})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+created.Room.Code+"/leave", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("leave: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/rooms/"+created.Room.Code, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("get after leave: expected 404, got %d", w.Code)
	}
}

func TestVocabulary(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/vocabulary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp VocabularyResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Items) < 12 {
		t.Fatalf("vocabulary has %d items, want at least the hard item set size", len(resp.Items))
	}
}
