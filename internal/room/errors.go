package room

import "errors"

var (
	ErrRoomNotFound           = errors.New("room not found")
	ErrRoomFull               = errors.New("room is full")
	ErrInvalidPhase           = errors.New("operation not allowed in current phase")
	ErrNotAParticipant        = errors.New("not a participant of this room")
	ErrSelfJoin               = errors.New("cannot join a room you host")
	ErrResourceExhausted      = errors.New("could not allocate a unique room code")
	ErrInsufficientVocabulary = errors.New("vocabulary smaller than requested item count")
	ErrConflict               = errors.New("too many concurrent updates")
	ErrStoreUnavailable       = errors.New("room store unavailable")
	ErrUnknownItem            = errors.New("item not in vocabulary")
	ErrUnknownDifficulty      = errors.New("unknown difficulty")
)

// Store-level sentinels. ErrVersionConflict is retried by the coordinator and
// only surfaces as ErrConflict once retries are exhausted.
var (
	ErrAlreadyExists   = errors.New("room code already exists")
	ErrVersionConflict = errors.New("stale room version")
)
