package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/mulahmanage/mulah/internal/fault"
	"github.com/mulahmanage/mulah/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Add stamps a new transaction with the current time and appends it to
	// the ledger.
	Add(ctx context.Context, amount decimal.Decimal, txType Type, category, notes string) (Transaction, error)
	// Update fully replaces the transaction with tx.ID. Returns
	// fault.ErrNotFound when the id no longer exists, for example because it
	// was deleted concurrently from another entry point.
	Update(ctx context.Context, tx Transaction) error
	// Delete removes a transaction by id. Deleting an already-deleted id
	// returns fault.ErrNotFound.
	Delete(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
	GetAll(ctx context.Context) ([]Transaction, error)
	GetByID(ctx context.Context, id int64) (Transaction, error)
}

type ServiceImpl struct {
	repo  Repo
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(repo Repo, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: clock}
}

// validate rejects bad input before it can reach the store.
func validate(amount decimal.Decimal, txType Type, category string) error {
	if !amount.IsPositive() {
		return fault.Invalid("amount", "must be greater than zero")
	}
	if strings.TrimSpace(category) == "" {
		return fault.Invalid("category", "must not be blank")
	}
	if !txType.IsValid() {
		return fault.Invalid("type", fmt.Sprintf("unknown transaction type %q", txType))
	}
	return nil
}

func (s *ServiceImpl) Add(ctx context.Context, amount decimal.Decimal, txType Type, category, notes string) (Transaction, error) {
	if err := validate(amount, txType, category); err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		Amount:     amount,
		Type:       txType,
		Category:   category,
		Notes:      notes,
		OccurredAt: s.clock.Now(),
	}
	id, err := s.repo.Store(ctx, tx)
	if err != nil {
		return Transaction{}, fault.Storage("transaction store", err)
	}
	tx.ID = id

	s.notify(ctx, event_bus.ChangeCreated, id)
	return tx, nil
}

func (s *ServiceImpl) Update(ctx context.Context, tx Transaction) error {
	if err := validate(tx.Amount, tx.Type, tx.Category); err != nil {
		return err
	}

	updated, err := s.repo.Update(ctx, tx)
	if err != nil {
		return fault.Storage("transaction update", err)
	}
	if !updated {
		log.Warnf("transaction not updated, probably deleted concurrently (%d)", tx.ID)
		return fmt.Errorf("transaction %d: %w", tx.ID, fault.ErrNotFound)
	}

	s.notify(ctx, event_bus.ChangeUpdated, tx.ID)
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fault.Storage("transaction delete", err)
	}
	if !deleted {
		log.Warnf("transaction not deleted, probably because it does not exist (%d)", id)
		return fmt.Errorf("transaction %d: %w", id, fault.ErrNotFound)
	}

	s.notify(ctx, event_bus.ChangeDeleted, id)
	return nil
}

func (s *ServiceImpl) ClearAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fault.Storage("transaction clear", err)
	}

	s.notify(ctx, event_bus.ChangeCleared, 0)
	return nil
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Transaction, error) {
	transactions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fault.Storage("transaction scan", err)
	}
	return transactions, nil
}

func (s *ServiceImpl) GetByID(ctx context.Context, id int64) (Transaction, error) {
	tx, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Transaction{}, fault.Storage("transaction lookup", err)
	}
	if !found {
		return Transaction{}, fmt.Errorf("transaction %d: %w", id, fault.ErrNotFound)
	}
	return tx, nil
}

// notify publishes a change event after a committed write. The write already
// succeeded, so a failing subscriber is logged but never fails the command.
// The caller's context is detached first: a client cancelling right after the
// commit must not swallow the invalidation.
func (s *ServiceImpl) notify(ctx context.Context, kind event_bus.ChangeKind, id int64) {
	event := event_bus.NewEvent(context.WithoutCancel(ctx), event_bus.TransactionsChanged, event_bus.TableChanged{Kind: kind, ID: id})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("transactions change notification failed: %v", err)
	}
}
