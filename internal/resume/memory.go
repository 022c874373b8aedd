package resume

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-analyzer/internal/analysis"
)

// MemoryStore is an in-process Store. Records are copied on the way in and
// out so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*Record),
		now:     time.Now,
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return &PersistenceError{Op: "create", Cause: fmt.Errorf("duplicate id %s", rec.ID)}
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// ListByUser implements Store.
func (s *MemoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []Record{}
	for _, rec := range s.records {
		if rec.UserID != userID {
			continue
		}
		c := rec.Clone()
		c.FileData = nil
		records = append(records, *c)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records, nil
}

// UpdateTitle implements Store.
func (s *MemoryStore) UpdateTitle(_ context.Context, id uuid.UUID, title string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return nil, nil
	}

	current.Title = title
	current.UpdatedAt = s.now().UTC()
	return current.Clone(), nil
}

// SaveAnalysis implements Store.
func (s *MemoryStore) SaveAnalysis(_ context.Context, id uuid.UUID, result analysis.Result) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return nil, nil
	}

	updated := ApplyAnalysis(current, result)
	updated.AnalysisVersion = NextVersion(current, updated)
	updated.UpdatedAt = s.now().UTC()

	s.records[id] = updated
	return updated.Clone(), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}
