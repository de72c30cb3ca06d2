package quickexpense

import (
	"context"
	"sort"
	"sync"
)

type StubRepo struct {
	mu     sync.Mutex
	nextId int64
	data   map[int64]QuickExpense
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[int64]QuickExpense{}}
}

func (s *StubRepo) Store(ctx context.Context, preset QuickExpense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if preset.ID == 0 {
		s.nextId++
		preset.ID = s.nextId
	}
	s.data[preset.ID] = preset
	return preset.ID, nil
}

func (s *StubRepo) GetAll(ctx context.Context) ([]QuickExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	presets := make([]QuickExpense, 0, len(s.data))
	for _, preset := range s.data {
		presets = append(presets, preset)
	}
	sort.Slice(presets, func(i, j int) bool {
		if presets[i].Name == presets[j].Name {
			return presets[i].ID < presets[j].ID
		}
		return presets[i].Name < presets[j].Name
	})
	return presets, nil
}

func (s *StubRepo) FindByID(ctx context.Context, id int64) (QuickExpense, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	preset, ok := s.data[id]
	return preset, ok, nil
}

func (s *StubRepo) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int64]QuickExpense{}
}
