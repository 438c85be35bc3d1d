package repository

import (
	"context"
	"sync"
)

// MemorySlotStore keeps blobs in process memory. Contents are lost on exit.
type MemorySlotStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{data: make(map[string][]byte)}
}

func (s *MemorySlotStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemorySlotStore) Set(ctx context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	return nil
}

func (s *MemorySlotStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemorySlotStore) Close() error {
	return nil
}
