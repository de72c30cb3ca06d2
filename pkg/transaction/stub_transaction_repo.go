package transaction

import (
	"context"
	"sort"
	"sync"
	"time"
)

// StubRepo is an in-memory Repo for tests. Ids are monotonically increasing
// and never reused, matching the store's AUTOINCREMENT behavior. Guarded by a
// mutex because live-view workers scan it concurrently with test writes.
type StubRepo struct {
	mu     sync.Mutex
	nextId int64
	data   map[int64]Transaction
}

func NewStubRepo() *StubRepo {
	return &StubRepo{data: map[int64]Transaction{}}
}

func (s *StubRepo) Store(ctx context.Context, tx Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	tx.ID = s.nextId
	s.data[tx.ID] = tx
	return tx.ID, nil
}

func (s *StubRepo) Update(ctx context.Context, tx Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[tx.ID]; !ok {
		return false, nil
	}
	s.data[tx.ID] = tx
	return true, nil
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

func (s *StubRepo) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int64]Transaction{}
	return nil
}

func (s *StubRepo) GetAll(ctx context.Context) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	transactions := make([]Transaction, 0, len(s.data))
	for _, tx := range s.data {
		transactions = append(transactions, tx)
	}
	sortNewestFirst(transactions)
	return transactions, nil
}

func (s *StubRepo) FindForRange(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var transactions []Transaction
	for _, tx := range s.data {
		if !tx.OccurredAt.Before(from) && tx.OccurredAt.Before(to) {
			transactions = append(transactions, tx)
		}
	}
	sortNewestFirst(transactions)
	return transactions, nil
}

func (s *StubRepo) FindByID(ctx context.Context, id int64) (Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.data[id]
	return tx, ok, nil
}

func (s *StubRepo) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[int64]Transaction{}
}

func sortNewestFirst(transactions []Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		if transactions[i].OccurredAt.Equal(transactions[j].OccurredAt) {
			return transactions[i].ID > transactions[j].ID
		}
		return transactions[i].OccurredAt.After(transactions[j].OccurredAt)
	})
}
