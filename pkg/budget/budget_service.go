package budget

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
	// Upsert sets the monthly allowance for a category, replacing any
	// previous value.
	Upsert(ctx context.Context, category string, amount decimal.Decimal) (Budget, error)
	GetAll(ctx context.Context) ([]Budget, error)
	// Delete removes the budget for a category. Returns fault.ErrNotFound
	// when the category has no budget.
	Delete(ctx context.Context, category string) error
	ClearAll(ctx context.Context) error
}

type ServiceImpl struct {
	repo Repo
	bus  *event_bus.EventBus
}

func NewService(repo Repo, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus}
}

func (s *ServiceImpl) Upsert(ctx context.Context, category string, amount decimal.Decimal) (Budget, error) {
	if strings.TrimSpace(category) == "" {
		return Budget{}, fault.Invalid("category", "must not be blank")
	}
	if !amount.IsPositive() {
		return Budget{}, fault.Invalid("amount", "must be greater than zero")
	}

	budget := Budget{Category: category, MonthlyAmount: amount}
	if err := s.repo.Upsert(ctx, budget); err != nil {
		return Budget{}, fault.Storage("budget upsert", err)
	}

	s.notify(ctx, event_bus.ChangeUpdated, category)
	return budget, nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Budget, error) {
	budgets, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("budget scan", err)
	}
	return budgets, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, category string) error {
	deleted, err := s.repo.Delete(ctx, category)
	if err != nil {
		return fault.Storage("budget delete", err)
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because category %q has none", category)
		return fmt.Errorf("budget for %q: %w", category, fault.ErrNotFound)
	}

	s.notify(ctx, event_bus.ChangeDeleted, category)
	return nil
}

func (s *ServiceImpl) ClearAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fault.Storage("budget clear", err)
	}

	s.notify(ctx, event_bus.ChangeCleared, "")
	return nil
}

func (s *ServiceImpl) notify(ctx context.Context, kind event_bus.ChangeKind, category string) {
	// detached from the caller: a cancelled request must not swallow the
	// invalidation for a write that already committed
	event := event_bus.NewEvent(context.WithoutCancel(ctx), event_bus.BudgetsChanged, event_bus.TableChanged{Kind: kind, Category: category})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("budgets change notification failed: %v", err)
	}
}
