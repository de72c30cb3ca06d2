package budget

import (
	"context"
	"sort"
	"sync"
)

type StubRepo struct {
	mu   sync.Mutex
	data map[string]Budget
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]Budget{}}
}

func (s *StubRepo) Upsert(ctx context.Context, budget Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[budget.Category] = budget
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context) ([]Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	budgets := make([]Budget, 0, len(s.data))
	for _, budget := range s.data {
		budgets = append(budgets, budget)
	}
	sort.Slice(budgets, func(i, j int) bool {
		return budgets[i].Category < budgets[j].Category
	})
	return budgets, nil
}

func (s *StubRepo) Delete(ctx context.Context, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[category]; !ok {
		return false, nil
	}
	delete(s.data, category)
	return true, nil
}

func (s *StubRepo) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]Budget{}
	return nil
}

func (s *StubRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]Budget{}
}
