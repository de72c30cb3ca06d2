package budget

import (
	"context"
	"testing"

	"github.com/mulahmanage/mulah/internal/test_utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupTestRepository(t *testing.T) (context.Context, *RepoImpl) {
	return context.Background(), NewRepo(test_utils.SetupTestDB(t))
}

func TestRepoImpl_UpsertReplacesAmount(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)

	// when
	assert.NoError(t, repo.Upsert(ctx, Budget{Category: "Food", MonthlyAmount: decimal.NewFromInt(100)}))
	assert.NoError(t, repo.Upsert(ctx, Budget{Category: "Food", MonthlyAmount: decimal.NewFromInt(150)}))

	// then: one row per category, last amount wins
	budgets, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, budgets, 1)
	assert.Equal(t, "Food", budgets[0].Category)
	assert.True(t, budgets[0].MonthlyAmount.Equal(decimal.NewFromInt(150)))
}

func TestRepoImpl_GetAllOrdersByCategory(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	assert.NoError(t, repo.Upsert(ctx, Budget{Category: "Transport", MonthlyAmount: decimal.NewFromInt(60)}))
	assert.NoError(t, repo.Upsert(ctx, Budget{Category: "Food", MonthlyAmount: decimal.NewFromInt(100)}))

	budgets, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, budgets, 2)
	assert.Equal(t, "Food", budgets[0].Category)
	assert.Equal(t, "Transport", budgets[1].Category)
}

func TestRepoImpl_Delete(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	assert.NoError(t, repo.Upsert(ctx, Budget{Category: "Food", MonthlyAmount: decimal.NewFromInt(100)}))

	ok, err := repo.Delete(ctx, "Food")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "Food")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRepoImpl_DeleteAll(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	assert.NoError(t, repo.Upsert(ctx, Budget{Category: "Food", MonthlyAmount: decimal.NewFromInt(100)}))
	assert.NoError(t, repo.Upsert(ctx, Budget{Category: "Transport", MonthlyAmount: decimal.NewFromInt(60)}))

	assert.NoError(t, repo.DeleteAll(ctx))

	budgets, err := repo.GetAll(ctx)
	assert.NoError(t, err)
	assert.Empty(t, budgets)
}
