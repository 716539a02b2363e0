package room

import "sync"

// Broker is an in-process Notifier: pub/sub of room snapshots keyed by room
// code. Suitable for a single instance; use RedisBroker to fan out across
// instances.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Room]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Room]struct{}),
	}
}

// Subscribe returns a channel that receives document snapshots for the room.
func (b *Broker) Subscribe(code string) chan Room {
	ch := make(chan Room, 16)
	b.mu.Lock()
	if b.subs[code] == nil {
		b.subs[code] = make(map[chan Room]struct{})
	}
	b.subs[code][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the room's subscribers.
func (b *Broker) Unsubscribe(code string, ch chan Room) {
	b.mu.Lock()
	delete(b.subs[code], ch)
	if len(b.subs[code]) == 0 {
		delete(b.subs, code)
	}
	b.mu.Unlock()
}

// Publish sends a snapshot to all subscribers of the room.
func (b *Broker) Publish(code string, doc Room) {
	b.mu.RLock()
	for ch := range b.subs[code] {
		select {
		case ch <- doc:
		default:
			// Drop if subscriber is slow; it re-syncs from a later snapshot.
		}
	}
	b.mu.RUnlock()
}
