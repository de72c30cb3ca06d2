package quickexpense

import (
	"context"
	"testing"

	"github.com/mulahmanage/mulah/internal/event_bus"
	"github.com/mulahmanage/mulah/internal/fault"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a preset", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		preset, err := service.Add(ctx, "Coffee", decimal.RequireFromString("3.50"), "Food")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), preset.ID)
		assert.Equal(t, "Coffee", preset.Name)
	})

	t.Run("duplicate names are distinct presets", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		first, err := service.Add(ctx, "Coffee", decimal.NewFromInt(3), "Food")
		assert.NoError(t, err)
		second, err := service.Add(ctx, "Coffee", decimal.NewFromInt(4), "Food")
		assert.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		presets, err := service.GetAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, presets, 2)
	})

	t.Run("rejects blank name, blank category, and non-positive amount", func(t *testing.T) {
		service := NewService(NewStubRepo(), event_bus.NewEventBus())

		_, err := service.Add(ctx, " ", decimal.NewFromInt(3), "Food")
		assert.ErrorIs(t, err, fault.ErrInvalid)
		_, err = service.Add(ctx, "Coffee", decimal.Zero, "Food")
		assert.ErrorIs(t, err, fault.ErrInvalid)
		_, err = service.Add(ctx, "Coffee", decimal.NewFromInt(3), "")
		assert.ErrorIs(t, err, fault.ErrInvalid)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewStubRepo(), event_bus.NewEventBus())

	preset, err := service.Add(ctx, "Coffee", decimal.NewFromInt(3), "Food")
	assert.NoError(t, err)

	assert.NoError(t, service.Delete(ctx, preset.ID))
	assert.ErrorIs(t, service.Delete(ctx, preset.ID), fault.ErrNotFound)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewStubRepo(), event_bus.NewEventBus())

	_, err := service.GetByID(ctx, 42)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}
