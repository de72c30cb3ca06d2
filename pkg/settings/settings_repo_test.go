package settings

import (
	"context"
	"testing"

	"github.com/mulahmanage/mulah/internal/test_utils"
	"github.com/stretchr/testify/assert"
)

func setupTestRepository(t *testing.T) (context.Context, *RepoImpl) {
	return context.Background(), NewRepo(test_utils.SetupTestDB(t))
}

func TestRepoImpl_GetMissingKey(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	value, found, err := repo.Get(ctx, "theme")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestRepoImpl_SetThenGet(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	assert.NoError(t, repo.Set(ctx, "theme", "Dark"))

	value, found, err := repo.Get(ctx, "theme")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Dark", value)
}

func TestRepoImpl_SetReplacesValue(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	assert.NoError(t, repo.Set(ctx, "theme", "Dark"))
	assert.NoError(t, repo.Set(ctx, "theme", "Light"))

	value, found, err := repo.Get(ctx, "theme")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Light", value)
}
