// Package room implements the two-player room/session coordinator: room
// lifecycle, phase progression, deadline-driven transitions, and
// version-conditioned writes against a RoomStore.
package room

import "time"

// Phase is the current stage of a room's state machine. Transitions are
// monotonic along lobby → memorizing → selecting → revealed → closed;
// closed is terminal and reachable from any phase via leave.
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseMemorizing Phase = "memorizing"
	PhaseSelecting  Phase = "selecting"
	PhaseRevealed   Phase = "revealed"
	PhaseClosed     Phase = "closed"
)

// CanTransitionTo reports whether moving from p to target is legal.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseClosed {
		return p != PhaseClosed
	}
	next := map[Phase]Phase{
		PhaseLobby:      PhaseMemorizing,
		PhaseMemorizing: PhaseSelecting,
		PhaseSelecting:  PhaseRevealed,
	}
	return next[p] == target
}

// Difficulty is a named preset controlling item count and phase timing.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyParams holds the fixed per-difficulty settings.
type DifficultyParams struct {
	Items     int
	Memorize  time.Duration
	Selection time.Duration
}

var difficultyParams = map[Difficulty]DifficultyParams{
	DifficultyEasy:   {Items: 6, Memorize: 45 * time.Second, Selection: 90 * time.Second},
	DifficultyMedium: {Items: 8, Memorize: 30 * time.Second, Selection: 60 * time.Second},
	DifficultyHard:   {Items: 12, Memorize: 20 * time.Second, Selection: 45 * time.Second},
}

// Params returns the preset for d, and false for an unknown difficulty.
func (d Difficulty) Params() (DifficultyParams, bool) {
	p, ok := difficultyParams[d]
	return p, ok
}

// Room is the aggregate document coordinating one two-player game session.
// It is the only shared mutable state; every accepted mutation increments
// Version, and writes are conditioned on the version the mutation read.
type Room struct {
	Code          string              `json:"code"`
	HostID        string              `json:"hostId"`
	GuestID       string              `json:"guestId,omitempty"`
	Difficulty    Difficulty          `json:"difficulty"`
	Phase         Phase               `json:"phase"`
	ItemSet       []string            `json:"itemSet,omitempty"`
	PhaseDeadline *time.Time          `json:"phaseDeadline,omitempty"`
	Submissions   map[string][]string `json:"submissions,omitempty"`
	Scores        map[string]int      `json:"scores,omitempty"`
	Version       int64               `json:"version"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// IsParticipant reports whether id holds one of the room's two slots.
func (r *Room) IsParticipant(id string) bool {
	return id != "" && (id == r.HostID || id == r.GuestID)
}

// bothSubmitted reports whether host and guest each have a submission entry.
// An empty submission still counts: submitting nothing is a valid answer.
func (r *Room) bothSubmitted() bool {
	if r.GuestID == "" {
		return false
	}
	_, host := r.Submissions[r.HostID]
	_, guest := r.Submissions[r.GuestID]
	return host && guest
}

// reveal freezes scores for every participant (missing submissions score
// against the empty set) and moves the room to the revealed phase.
func (r *Room) reveal() {
	r.Scores = map[string]int{
		r.HostID: Score(r.ItemSet, r.Submissions[r.HostID]),
	}
	if r.GuestID != "" {
		r.Scores[r.GuestID] = Score(r.ItemSet, r.Submissions[r.GuestID])
	}
	r.Phase = PhaseRevealed
	r.PhaseDeadline = nil
}

// clone returns a deep copy, so stored documents never alias caller state.
func (r Room) clone() Room {
	out := r
	if r.ItemSet != nil {
		out.ItemSet = append([]string(nil), r.ItemSet...)
	}
	if r.PhaseDeadline != nil {
		d := *r.PhaseDeadline
		out.PhaseDeadline = &d
	}
	if r.Submissions != nil {
		out.Submissions = make(map[string][]string, len(r.Submissions))
		for k, v := range r.Submissions {
			out.Submissions[k] = append([]string(nil), v...)
		}
	}
	if r.Scores != nil {
		out.Scores = make(map[string]int, len(r.Scores))
		for k, v := range r.Scores {
			out.Scores[k] = v
		}
	}
	return out
}
