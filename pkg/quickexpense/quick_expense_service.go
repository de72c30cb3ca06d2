package quickexpense

import (
	"context"
	"fmt"
	"strings"

	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/mulahmanage/mulah/internal/fault"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Add creates a new preset. There is no dedup: two presets may share a
	// name and remain distinct entities.
	Add(ctx context.Context, name string, amount decimal.Decimal, category string) (QuickExpense, error)
	GetAll(ctx context.Context) ([]QuickExpense, error)
	GetByID(ctx context.Context, id int64) (QuickExpense, error)
	Delete(ctx context.Context, id int64) error
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) Add(ctx context.Context, name string, amount decimal.Decimal, category string) (QuickExpense, error) {
	if strings.TrimSpace(name) == "" {
		return QuickExpense{}, fault.Invalid("name", "must not be blank")
	}
	if !amount.IsPositive() {
		return QuickExpense{}, fault.Invalid("amount", "must be greater than zero")
	}
	if strings.TrimSpace(category) == "" {
		return QuickExpense{}, fault.Invalid("category", "must not be blank")
	}

	preset := QuickExpense{Name: name, Amount: amount, Category: category}
	id, err := s.repo.Store(ctx, preset)
	if err != nil {
		return QuickExpense{}, fault.Storage("quick expense store", err)
	}
	preset.ID = id

	s.notify(ctx, event_bus.ChangeCreated, id)
	return preset, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]QuickExpense, error) {
	presets, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("quick expense scan", err)
	}
	return presets, nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id int64) (QuickExpense, error) {
	preset, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return QuickExpense{}, fault.Storage("quick expense lookup", err)
	}
	if !found {
		return QuickExpense{}, fmt.Errorf("quick expense %d: %w", id, fault.ErrNotFound)
	}
	return preset, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fault.Storage("quick expense delete", err)
	}
	if !deleted {
		log.Warnf("quick expense not deleted, probably because it does not exist (%d)", id)
		return fmt.Errorf("quick expense %d: %w", id, fault.ErrNotFound)
	}

	s.notify(ctx, event_bus.ChangeDeleted, id)
	return nil
}

func (s *ServiceImpl) notify(ctx context.Context, kind event_bus.ChangeKind, id int64) {
	// detached from the caller: a cancelled request must not swallow the
	// invalidation for a write that already committed
	event := event_bus.NewEvent(context.WithoutCancel(ctx), event_bus.QuickExpensesChanged, event_bus.TableChanged{Kind: kind, ID: id})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("quick expenses change notification failed: %v", err)
	}
}
