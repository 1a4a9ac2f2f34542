package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in insertion order for the lifetime of the process.
type MemStore struct {
	mu    sync.RWMutex
	items []Product
}

func NewMemStore(seed ...Fields) *MemStore {
	s := &MemStore{items: make([]Product, 0, len(seed))}
	for _, f := range seed {
		s.items = append(s.items, f.product(s.nextID()))
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, f Filter) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.items))
	for _, p := range s.items {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}
	return s.items[i], true, nil
}

func (s *MemStore) Create(ctx context.Context, f Fields) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := f.product(s.nextID())
	s.items = append(s.items, p)
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id int64, patch Patch) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false, nil
	}
	patch.Apply(&s.items[i])
	return s.items[i], true, nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true, nil
}

// nextID must be called with the write lock held.
func (s *MemStore) nextID() int64 {
	var max int64
	for _, p := range s.items {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (s *MemStore) indexOf(id int64) int {
	for i, p := range s.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}
