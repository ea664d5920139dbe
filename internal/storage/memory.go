package storage

import (
	"context"
	"sort"
	"sync"

	"tekton/internal/model"
)

// MemoryStore is the always-available in-process backend.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	runOrder    []string
	layouts     map[string]model.LayoutRecord
	history     map[string][]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.runOrder = nil
	s.layouts = make(map[string]model.LayoutRecord)
	s.history = make(map[string][]float64)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.runOrder = append(s.runOrder, run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

// ListRuns returns the most recent runs first, up to limit (0 means
// all).
func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.runOrder))
	for i := len(s.runOrder) - 1; i >= 0; i-- {
		out = append(out, s.runs[s.runOrder[i]])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAtUTC > out[j].CreatedAtUTC
	})
	return out, nil
}

func (s *MemoryStore) SaveLayout(_ context.Context, layout model.LayoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layouts[layout.RunID] = layout
	return nil
}

func (s *MemoryStore) GetLayout(_ context.Context, runID string) (model.LayoutRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	layout, ok := s.layouts[runID]
	return layout, ok, nil
}

func (s *MemoryStore) SaveFitnessHistory(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetFitnessHistory(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}
