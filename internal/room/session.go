package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	// codeRetries bounds how many fresh codes are tried before giving up
	// with ErrResourceExhausted.
	codeRetries = 5

	// writeRetries bounds how often a mutation is re-applied after a
	// version conflict before surfacing ErrConflict.
	writeRetries = 3

	// expiryTimeout bounds the store round trip of a timer-driven mutation,
	// which has no client request context to inherit.
	expiryTimeout = 5 * time.Second
)

// errStaleTimer marks a deadline firing that found the room already past the
// phase it was scheduled for. Such firings must no-op.
var errStaleTimer = errors.New("stale phase timer")

// errAlreadyClosed marks a leave against a room that is already closed.
var errAlreadyClosed = errors.New("room already closed")

// Coordinator is the room session machine. It owns phase progression,
// participant slots, submissions and deadline timers, and applies every
// mutation with a read-validate-write cycle conditioned on the document
// version. Host client, guest client and the room's own timer all funnel
// through it; conflicting writes lose the version check and retry.
type Coordinator struct {
	store    Store
	notifier Notifier
	catalog  *Catalog
	timers   *Timers
	logger   *slog.Logger

	// closeGrace is how long a closed room with a guest stays readable
	// before deletion; zero disables scheduled cleanup.
	closeGrace time.Duration

	now func() time.Time
}

func NewCoordinator(store Store, notifier Notifier, logger *slog.Logger, closeGrace time.Duration) *Coordinator {
	return &Coordinator{
		store:      store,
		notifier:   notifier,
		catalog:    NewCatalog(),
		timers:     NewTimers(),
		logger:     logger,
		closeGrace: closeGrace,
		now:        time.Now,
	}
}

// Create mints a new room in the lobby phase with hostID holding the host
// slot. Code collisions are resolved by retrying with a fresh code.
func (c *Coordinator) Create(ctx context.Context, difficulty Difficulty, hostID string) (Room, error) {
	if _, ok := difficulty.Params(); !ok {
		return Room{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}

	for range codeRetries {
		code := NewCode()
		now := c.now().UTC()
		doc := Room{
			Code:       code,
			HostID:     hostID,
			Difficulty: difficulty,
			Phase:      PhaseLobby,
			Version:    1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		err := c.store.Create(ctx, code, doc)
		if errors.Is(err, ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return Room{}, err
		}

		c.logger.Info("room created", "code", code, "difficulty", difficulty)
		c.notifier.Publish(code, doc)
		return doc, nil
	}
	return Room{}, ErrResourceExhausted
}

// Join fills the guest slot, generates the item set and starts the memorize
// phase. The slot is set exactly once; a concurrent second join loses the
// version check, re-reads, and fails with ErrRoomFull.
func (c *Coordinator) Join(ctx context.Context, code, guestID string) (Room, error) {
	code = NormalizeCode(code)

	var deadline time.Time
	doc, err := c.update(ctx, code, func(r *Room) error {
		if guestID == r.HostID {
			return ErrSelfJoin
		}
		if r.GuestID != "" {
			return ErrRoomFull
		}
		if r.Phase != PhaseLobby {
			return ErrInvalidPhase
		}

		params, _ := r.Difficulty.Params()
		items, err := c.catalog.Generate(params.Items)
		if err != nil {
			return err
		}

		r.GuestID = guestID
		r.ItemSet = items
		r.Phase = PhaseMemorizing
		deadline = c.now().UTC().Add(params.Memorize)
		r.PhaseDeadline = &deadline
		return nil
	})
	if err != nil {
		return Room{}, err
	}

	c.logger.Info("guest joined", "code", code)
	c.scheduleDeadline(code, PhaseMemorizing, deadline)
	return doc, nil
}

// SubmitAnswer records a participant's chosen items during the selecting
// phase. Resubmission overwrites (last accepted write wins). When the second
// submission lands, the room reveals immediately instead of waiting for the
// deadline.
func (c *Coordinator) SubmitAnswer(ctx context.Context, code, participantID string, items []string) (Room, error) {
	code = NormalizeCode(code)

	// Validate against the vocabulary before touching the store: picking a
	// wrong item is fine (it just won't match), but an identifier outside
	// the vocabulary is a malformed request.
	chosen := dedupe(items)
	for _, item := range chosen {
		if !c.catalog.Contains(item) {
			return Room{}, fmt.Errorf("%w: %q", ErrUnknownItem, item)
		}
	}

	revealed := false
	doc, err := c.update(ctx, code, func(r *Room) error {
		if r.Phase != PhaseSelecting {
			return ErrInvalidPhase
		}
		if !r.IsParticipant(participantID) {
			return ErrNotAParticipant
		}

		if r.Submissions == nil {
			r.Submissions = make(map[string][]string, 2)
		}
		r.Submissions[participantID] = chosen

		if r.bothSubmitted() {
			r.reveal()
			revealed = true
		}
		return nil
	})
	if err != nil {
		return Room{}, err
	}

	if revealed {
		c.timers.Cancel(code)
		c.logger.Info("room revealed early", "code", code, "scores", doc.Scores)
	}
	return doc, nil
}

// Leave closes the room. A host abandoning an unjoined room deletes the
// document immediately (a later join sees ErrRoomNotFound); after a guest
// joined, the closed document stays readable for the grace period so the
// other client can observe the closure.
func (c *Coordinator) Leave(ctx context.Context, code, participantID string) error {
	code = NormalizeCode(code)

	preJoin := false
	_, err := c.update(ctx, code, func(r *Room) error {
		if !r.IsParticipant(participantID) {
			return ErrNotAParticipant
		}
		if r.Phase == PhaseClosed {
			return errAlreadyClosed
		}
		preJoin = r.GuestID == ""
		r.Phase = PhaseClosed
		r.PhaseDeadline = nil
		return nil
	})
	if errors.Is(err, errAlreadyClosed) {
		return nil
	}
	if err != nil {
		return err
	}

	c.timers.Cancel(code)
	c.logger.Info("room closed", "code", code, "pre_join", preJoin)

	if preJoin {
		if err := c.store.Delete(ctx, code); err != nil && !errors.Is(err, ErrRoomNotFound) {
			c.logger.Error("deleting abandoned room", "code", code, "error", err)
		}
		return nil
	}
	if c.closeGrace > 0 {
		c.timers.Schedule(code, c.now().Add(c.closeGrace), func() {
			c.cleanup(code)
		})
	}
	return nil
}

// Get returns the current room document.
func (c *Coordinator) Get(ctx context.Context, code string) (Room, error) {
	return c.store.Read(ctx, NormalizeCode(code))
}

// Watch returns the current document plus a channel of subsequent committed
// snapshots. Each call is an independent, restartable subscription; callers
// must invoke cancel when done and should skip snapshots whose version is not
// greater than the last one they delivered.
func (c *Coordinator) Watch(ctx context.Context, code string) (Room, <-chan Room, func(), error) {
	code = NormalizeCode(code)

	// Subscribe before reading so no write committed after the read is missed.
	ch := c.notifier.Subscribe(code)
	doc, err := c.store.Read(ctx, code)
	if err != nil {
		c.notifier.Unsubscribe(code, ch)
		return Room{}, nil, nil, err
	}
	cancel := func() { c.notifier.Unsubscribe(code, ch) }
	return doc, ch, cancel, nil
}

// Vocabulary returns the full item vocabulary clients render the selection
// grid from.
func (c *Coordinator) Vocabulary() []string {
	return c.catalog.Items()
}

// Close cancels all pending timers. In-flight mutations finish normally.
func (c *Coordinator) Close() {
	c.timers.Stop()
}

// update runs one optimistic read-validate-write cycle, retrying on version
// conflicts. apply sees the freshly read document and mutates it in place;
// the version bump and timestamp are handled here.
func (c *Coordinator) update(ctx context.Context, code string, apply func(*Room) error) (Room, error) {
	for range writeRetries {
		doc, err := c.store.Read(ctx, code)
		if err != nil {
			return Room{}, err
		}

		expected := doc.Version
		if err := apply(&doc); err != nil {
			return Room{}, err
		}
		doc.Version = expected + 1
		doc.UpdatedAt = c.now().UTC()

		err = c.store.WriteIfVersion(ctx, code, expected, doc)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return Room{}, err
		}

		c.notifier.Publish(code, doc)
		return doc, nil
	}
	return Room{}, ErrConflict
}

func (c *Coordinator) scheduleDeadline(code string, phase Phase, at time.Time) {
	c.timers.Schedule(code, at, func() {
		c.expire(code, phase)
	})
}

// expire applies the automatic transition for a phase deadline. A firing that
// raced a cancellation or an early reveal finds the phase already advanced
// and no-ops.
func (c *Coordinator) expire(code string, from Phase) {
	ctx, cancel := context.WithTimeout(context.Background(), expiryTimeout)
	defer cancel()

	var nextDeadline time.Time
	scheduleNext := false

	doc, err := c.update(ctx, code, func(r *Room) error {
		if r.Phase != from {
			return errStaleTimer
		}
		switch from {
		case PhaseMemorizing:
			params, _ := r.Difficulty.Params()
			r.Phase = PhaseSelecting
			nextDeadline = c.now().UTC().Add(params.Selection)
			r.PhaseDeadline = &nextDeadline
			scheduleNext = true
		case PhaseSelecting:
			r.reveal()
		default:
			return errStaleTimer
		}
		return nil
	})
	if errors.Is(err, errStaleTimer) || errors.Is(err, ErrRoomNotFound) {
		return
	}
	if err != nil {
		c.logger.Error("applying phase deadline", "code", code, "phase", from, "error", err)
		return
	}

	c.logger.Info("phase deadline elapsed", "code", code, "from", from, "to", doc.Phase)
	if scheduleNext {
		c.scheduleDeadline(code, PhaseSelecting, nextDeadline)
	}
}

// cleanup removes a closed room once its grace period elapses.
func (c *Coordinator) cleanup(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), expiryTimeout)
	defer cancel()

	doc, err := c.store.Read(ctx, code)
	if err != nil || doc.Phase != PhaseClosed {
		return
	}
	if err := c.store.Delete(ctx, code); err != nil && !errors.Is(err, ErrRoomNotFound) {
		c.logger.Error("deleting closed room", "code", code, "error", err)
	}
}
