package room

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store implementation. State is lost on restart;
// it backs tests and single-node development, while the sqlite store is the
// durable one.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]Room
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]Room)}
}

func (s *MemoryStore) Create(_ context.Context, code string, doc Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; ok {
		return ErrAlreadyExists
	}
	s.rooms[code] = doc.clone()
	return nil
}

func (s *MemoryStore) Read(_ context.Context, code string) (Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.rooms[code]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return doc.clone(), nil
}

func (s *MemoryStore) WriteIfVersion(_ context.Context, code string, expected int64, doc Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if cur.Version != expected {
		return ErrVersionConflict
	}
	s.rooms[code] = doc.clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[code]; !ok {
		return ErrRoomNotFound
	}
	delete(s.rooms, code)
	return nil
}
