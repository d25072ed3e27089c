package store

import (
	"context"
	"testing"

	"hilltop/internal/utils"
	"hilltop/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	obs := new(recordingObserver)
	repo := NewCategoryRepository(pool, obs)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	monitoring := createCategory(t, repo, "Monitoring")
	cicd := createCategory(t, repo, "CI/CD")
	assert.NotZero(t, monitoring.ID)
	assert.False(t, monitoring.CreatedAt.IsZero())
	assert.NotEqual(t, monitoring.ID, cicd.ID)

	categories, err = repo.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "CI/CD", categories[0].Name)
	assert.Equal(t, "Monitoring", categories[1].Name)

	got, err := repo.Category(ctx, monitoring.ID)
	require.NoError(t, err)
	assert.Equal(t, monitoring, got)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.NotEmpty(t, obs.queries)
}

func TestCategoryNotFound(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCategoryRepository(pool, nil)

	_, err := repo.Category(ctx, 4242)
	assert.ErrorIs(t, err, types.ErrCategoryNotFound)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = repo.UpdateCategory(ctx, 4242, &types.CategoryInput{Name: utils.StringPtr("x")})
	assert.ErrorIs(t, err, types.ErrCategoryNotFound)

	deleted, err := repo.DeleteCategory(ctx, 4242)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCategoryDuplicateName(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCategoryRepository(pool, nil)

	createCategory(t, repo, "Security")
	_, err := repo.CreateCategory(ctx, &types.CategoryInput{
		Name:        utils.StringPtr("Security"),
		Description: utils.StringPtr("again"),
		Icon:        utils.StringPtr("Shield"),
	})
	assert.ErrorIs(t, err, types.ErrCategoryNameTaken)
	assert.ErrorIs(t, err, types.ErrConflict)

	other := createCategory(t, repo, "Automation")
	_, err = repo.UpdateCategory(ctx, other.ID, &types.CategoryInput{Name: utils.StringPtr("Security")})
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestUpdateCategory(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCategoryRepository(pool, nil)

	original := createCategory(t, repo, "Kubernetes")

	updated, err := repo.UpdateCategory(ctx, original.ID, &types.CategoryInput{Icon: utils.StringPtr("Container")})
	require.NoError(t, err)
	assert.Equal(t, "Container", updated.Icon)
	assert.Equal(t, original.Name, updated.Name)
	assert.Equal(t, original.Description, updated.Description)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)

	unchanged, err := repo.UpdateCategory(ctx, original.ID, &types.CategoryInput{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)
}

func TestDeleteCategory(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool, nil)
	resources := NewResourceRepository(pool, nil)

	empty := createCategory(t, categories, "Infrastructure")
	deleted, err := categories.DeleteCategory(ctx, empty.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = categories.Category(ctx, empty.ID)
	assert.ErrorIs(t, err, types.ErrCategoryNotFound)

	used := createCategory(t, categories, "CI/CD")
	_, err = resources.CreateResource(ctx, resourceInput("Jenkins", used.ID))
	require.NoError(t, err)

	deleted, err = categories.DeleteCategory(ctx, used.ID)
	assert.False(t, deleted)
	assert.ErrorIs(t, err, types.ErrCategoryInUse)
	assert.ErrorIs(t, err, types.ErrReferentialIntegrity)

	_, err = categories.Category(ctx, used.ID)
	assert.NoError(t, err)
}
