package inventory

import (
	"sync"
)

// Storage provides access to the plate totals owned by the gym.
type Storage interface {
	GetTotals() ([]int, error)
	SetTotals(totals []int) error
	// Update replaces the totals with fn's result while holding the write
	// lock. An error from fn leaves the totals unchanged.
	Update(fn func(current []int) ([]int, error)) ([]int, error)
}

// MemoryStorage keeps plate totals in-memory and guards access with a RWMutex.
// Nothing is written to disk; a restart brings back the configured totals.
type MemoryStorage struct {
	mu     sync.RWMutex
	size   int
	totals []int
}

// NewMemoryStorage initialises storage with a copy of the provided totals.
func NewMemoryStorage(c Catalogue, initial []int) (*MemoryStorage, error) {
	s := &MemoryStorage{size: c.Len()}
	if err := s.SetTotals(initial); err != nil {
		return nil, err
	}
	return s, nil
}

// GetTotals returns a defensive copy of the current totals in catalogue order.
func (s *MemoryStorage) GetTotals() ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.totals), nil
}

// SetTotals validates and stores totals given in catalogue order.
func (s *MemoryStorage) SetTotals(totals []int) error {
	if err := s.check(totals); err != nil {
		return err
	}

	s.mu.Lock()
	s.totals = clone(totals)
	s.mu.Unlock()

	return nil
}

// Update applies fn to a copy of the current totals and stores the validated
// result. Concurrent updates are serialised.
func (s *MemoryStorage) Update(fn func(current []int) ([]int, error)) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(clone(s.totals))
	if err != nil {
		return nil, err
	}
	if err := s.check(next); err != nil {
		return nil, err
	}
	s.totals = clone(next)
	return clone(next), nil
}

func (s *MemoryStorage) check(totals []int) error {
	if len(totals) != s.size {
		return ErrInvalidTotals
	}
	for _, total := range totals {
		if checkTotal(total) != nil {
			return ErrInvalidTotals
		}
	}
	return nil
}

func clone(src []int) []int {
	out := make([]int, len(src))
	copy(out, src)
	return out
}
