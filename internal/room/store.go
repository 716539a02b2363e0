package room

import "context"

// Store is the durable shared storage for room documents. Implementations
// must make WriteIfVersion atomic: the write lands only if the stored version
// still equals expected, otherwise ErrVersionConflict is returned and the
// caller retries from a fresh read.
//
// Driver-level failures are wrapped in ErrStoreUnavailable and never retried
// by the coordinator.
type Store interface {
	// Create inserts a new document. ErrAlreadyExists if the code is taken.
	Create(ctx context.Context, code string, doc Room) error

	// Read returns the current document. ErrRoomNotFound if absent.
	Read(ctx context.Context, code string) (Room, error)

	// WriteIfVersion replaces the document iff its stored version equals
	// expected. ErrVersionConflict on mismatch, ErrRoomNotFound if absent.
	WriteIfVersion(ctx context.Context, code string, expected int64, doc Room) error

	// Delete removes the document. ErrRoomNotFound if absent.
	Delete(ctx context.Context, code string) error
}

// Notifier fans committed document snapshots out to subscribers of a room.
// Subscribers that lag are allowed to miss intermediate snapshots but always
// eventually see the newest one delivered after they catch up.
type Notifier interface {
	Publish(code string, doc Room)
	Subscribe(code string) chan Room
	Unsubscribe(code string, ch chan Room)
}
