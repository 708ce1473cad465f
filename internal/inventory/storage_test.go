package inventory

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
)

func newTestStorage(t *testing.T) *MemoryStorage {
	t.Helper()

	store, err := NewMemoryStorage(DefaultCatalogue(), []int{2, 4, 4, 8, 8, 8, 8, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store
}

func TestNewMemoryStorageReturnsInitialTotals(t *testing.T) {
	t.Parallel()

	store := newTestStorage(t)

	got, err := store.GetTotals()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{2, 4, 4, 8, 8, 8, 8, 8}
	if !slices.Equal(got, want) {
		t.Fatalf("expected totals %v, got %v", want, got)
	}

	// ensure mutation safety
	got[0] = 998
	again, err := store.GetTotals()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slices.Equal(again, got) {
		t.Fatalf("expected defensive copy, got %v", again)
	}
}

func TestNewMemoryStorageRejectsInvalidInitialTotals(t *testing.T) {
	t.Parallel()

	if _, err := NewMemoryStorage(DefaultCatalogue(), []int{2}); !errors.Is(err, ErrInvalidTotals) {
		t.Fatalf("expected ErrInvalidTotals, got %v", err)
	}
}

func TestSetTotalsUpdatesState(t *testing.T) {
	t.Parallel()

	store := newTestStorage(t)
	want := []int{0, 2, 2, 2, 2, 2, 2, 2}
	if err := store.SetTotals(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetTotals()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSetTotalsRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := [][]int{
		nil,
		{},
		{2, 4},
		{3, 4, 4, 8, 8, 8, 8, 8},
		{-2, 4, 4, 8, 8, 8, 8, 8},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := newTestStorage(t)
			if err := store.SetTotals(tc); !errors.Is(err, ErrInvalidTotals) {
				t.Fatalf("expected ErrInvalidTotals for %v, got %v", tc, err)
			}
		})
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := newTestStorage(t)
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			totals := []int{2 * offset, 4, 4, 8, 8, 8, 8, 8}
			if err := store.SetTotals(totals); err != nil {
				t.Errorf("SetTotals failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.GetTotals(); err != nil {
				t.Errorf("GetTotals failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if _, err := store.GetTotals(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateAppliesResult(t *testing.T) {
	store := newTestStorage(t)

	got, err := store.Update(func(current []int) ([]int, error) {
		current[0] = 6
		return current, nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if want := []int{6, 4, 4, 8, 8, 8, 8, 8}; !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	stored, _ := store.GetTotals()
	if !slices.Equal(stored, got) {
		t.Fatalf("expected stored totals %v, got %v", got, stored)
	}

	got[1] = 100
	stored, _ = store.GetTotals()
	if stored[1] != 4 {
		t.Fatalf("expected returned slice to be a copy")
	}
}

func TestUpdateLeavesTotalsOnError(t *testing.T) {
	store := newTestStorage(t)
	boom := errors.New("boom")

	if _, err := store.Update(func(current []int) ([]int, error) {
		current[0] = 10
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	if _, err := store.Update(func(current []int) ([]int, error) {
		current[0] = 3
		return current, nil
	}); !errors.Is(err, ErrInvalidTotals) {
		t.Fatalf("expected ErrInvalidTotals for odd result, got %v", err)
	}

	stored, _ := store.GetTotals()
	if stored[0] != 2 {
		t.Fatalf("expected totals to be unchanged, got %v", stored)
	}
}

func TestUpdateSerialisesConcurrentChanges(t *testing.T) {
	store := newTestStorage(t)
	var wg sync.WaitGroup

	const workers = 64
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := store.Update(func(current []int) ([]int, error) {
				current[idx] += 2
				return current, nil
			})
			if err != nil {
				t.Errorf("Update failed: %v", err)
			}
		}(i % 8)
	}
	wg.Wait()

	stored, _ := store.GetTotals()
	want := []int{2, 4, 4, 8, 8, 8, 8, 8}
	for i := range want {
		want[i] += 2 * workers / 8
	}
	if !slices.Equal(stored, want) {
		t.Fatalf("expected every update to land: want %v, got %v", want, stored)
	}
}
