package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/mulahmanage/mulah/internal/fault"
	"github.com/mulahmanage/mulah/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupService() (*ServiceImpl, *StubRepo, *event_bus.EventBus, *utils.MockClock) {
	repo := NewStubRepo()
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.September, 10, 12, 30, 0, 0, time.Local)}
	return NewService(repo, bus, clock), repo, bus, clock
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the transaction with the clock time and assigns an id", func(t *testing.T) {
		service, repo, _, clock := setupService()

		tx, err := service.Add(ctx, decimal.NewFromInt(100), TypeIncome, "Income", "Pocket Money")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), tx.ID)
		assert.Equal(t, clock.Now(), tx.OccurredAt)

		stored, found, err := repo.FindByID(ctx, tx.ID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, tx, stored)
	})

	t.Run("publishes a change notification", func(t *testing.T) {
		service, _, bus, _ := setupService()

		var changes []event_bus.TableChanged
		bus.Subscribe(event_bus.TransactionsChanged, func(e event_bus.Event) error {
			changes = append(changes, e.Data.(event_bus.TableChanged))
			return nil
		})

		tx, err := service.Add(ctx, decimal.NewFromInt(30), TypeExpense, "Food", "Lunch")
		assert.NoError(t, err)
		assert.Equal(t, []event_bus.TableChanged{{Kind: event_bus.ChangeCreated, ID: tx.ID}}, changes)
	})

	t.Run("still notifies when the caller's context is already cancelled", func(t *testing.T) {
		service, _, bus, _ := setupService()

		var changes []event_bus.TableChanged
		bus.Subscribe(event_bus.TransactionsChanged, func(e event_bus.Event) error {
			changes = append(changes, e.Data.(event_bus.TableChanged))
			return nil
		})

		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()

		// a client disconnecting right after the commit must not swallow
		// the invalidation
		tx, err := service.Add(cancelledCtx, decimal.NewFromInt(30), TypeExpense, "Food", "Lunch")
		assert.NoError(t, err)
		assert.Equal(t, []event_bus.TableChanged{{Kind: event_bus.ChangeCreated, ID: tx.ID}}, changes)
	})

	t.Run("rejects invalid input before it reaches the store", func(t *testing.T) {
		service, repo, _, _ := setupService()

		tests := []struct {
			name     string
			amount   decimal.Decimal
			txType   Type
			category string
		}{
			{"zero amount", decimal.Zero, TypeExpense, "Food"},
			{"negative amount", decimal.NewFromInt(-5), TypeExpense, "Food"},
			{"blank category", decimal.NewFromInt(5), TypeExpense, "   "},
			{"unknown type", decimal.NewFromInt(5), Type("TRANSFER"), "Food"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Add(ctx, tt.amount, tt.txType, tt.category, "")
				assert.ErrorIs(t, err, fault.ErrInvalid)
			})
		}

		stored, err := repo.GetAll(ctx)
		assert.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces all fields by id", func(t *testing.T) {
		service, repo, _, _ := setupService()
		tx, err := service.Add(ctx, decimal.NewFromInt(30), TypeExpense, "Food", "Lunch")
		assert.NoError(t, err)

		tx.Amount = decimal.NewFromInt(45)
		tx.Notes = "Lunch and coffee"
		assert.NoError(t, service.Update(ctx, tx))

		stored, _, err := repo.FindByID(ctx, tx.ID)
		assert.NoError(t, err)
		assert.Equal(t, tx, stored)
	})

	t.Run("returns not found for a concurrently deleted id", func(t *testing.T) {
		service, _, _, _ := setupService()
		tx, err := service.Add(ctx, decimal.NewFromInt(30), TypeExpense, "Food", "Lunch")
		assert.NoError(t, err)
		assert.NoError(t, service.Delete(ctx, tx.ID))

		err = service.Update(ctx, tx)
		assert.ErrorIs(t, err, fault.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting an already-deleted id surfaces not found", func(t *testing.T) {
		service, _, _, _ := setupService()
		tx, err := service.Add(ctx, decimal.NewFromInt(30), TypeExpense, "Food", "Lunch")
		assert.NoError(t, err)

		assert.NoError(t, service.Delete(ctx, tx.ID))
		assert.ErrorIs(t, service.Delete(ctx, tx.ID), fault.ErrNotFound)
	})
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	service, _, bus, _ := setupService()

	_, err := service.Add(ctx, decimal.NewFromInt(100), TypeIncome, "Income", "")
	assert.NoError(t, err)
	_, err = service.Add(ctx, decimal.NewFromInt(30), TypeExpense, "Food", "")
	assert.NoError(t, err)

	var cleared bool
	bus.Subscribe(event_bus.TransactionsChanged, func(e event_bus.Event) error {
		cleared = e.Data.(event_bus.TableChanged).Kind == event_bus.ChangeCleared
		return nil
	})

	assert.NoError(t, service.ClearAll(ctx))
	assert.True(t, cleared)

	remaining, err := service.GetAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := setupService()

	_, err := service.GetByID(ctx, 42)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}
