package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Memomatch API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Room/session coordinator for the two-player memory game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/vocabulary
	getVocab, _ := r.NewOperationContext(http.MethodGet, "/api/vocabulary")
	getVocab.SetSummary("Item vocabulary")
	getVocab.SetDescription("Returns every selectable item identifier, for rendering the selection grid.")
	getVocab.AddRespStructure(VocabularyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getVocab)

	// POST /api/rooms
	postRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	postRoom.SetSummary("Create room")
	postRoom.SetDescription("Creates a new room in the lobby phase. Mints a playerId when none is supplied.")
	postRoom.AddReqStructure(CreateRoomRequest{})
	postRoom.AddRespStructure(RoomResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusTooManyRequests))
	postRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postRoom)

	// GET /api/rooms/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}")
	getRoom.SetSummary("Get room")
	getRoom.SetDescription("Returns the current room document.")
	getRoom.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// POST /api/rooms/{code}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/join")
	postJoin.SetSummary("Join room")
	postJoin.SetDescription("Fills the guest slot and starts the memorize phase.")
	postJoin.AddReqStructure(JoinRoomRequest{})
	postJoin.AddRespStructure(RoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// POST /api/rooms/{code}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Records the participant's chosen items during the selecting phase. Resubmission overwrites.")
	postAnswer.AddReqStructure(AnswerRequest{})
	postAnswer.AddRespStructure(RoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postAnswer)

	// POST /api/rooms/{code}/leave
	postLeave, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{code}/leave")
	postLeave.SetSummary("Leave room")
	postLeave.SetDescription("Closes the room. The other participant observes the closure via the event stream.")
	postLeave.AddReqStructure(LeaveRequest{})
	postLeave.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	postLeave.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postLeave)

	// GET /api/rooms/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/events")
	getEvents.SetSummary("SSE snapshot stream")
	getEvents.SetDescription("Server-Sent Events stream of room document snapshots; delivers the latest document first.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/rooms/{code}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/ws")
	getWS.SetSummary("WebSocket snapshot stream")
	getWS.SetDescription("Same snapshot stream as /events over a WebSocket connection.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
