package settings

import (
	"context"
	"sync"
)

type StubRepo struct {
	mu   sync.Mutex
	data map[string]string
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[string]string{}}
}

func (s *StubRepo) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.data[key]
	return value, found, nil
}

func (s *StubRepo) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *StubRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]string{}
}
