package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hilltop/internal/utils"
	"hilltop/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withClock makes nowFunc advance one second per call.
func withClock(t *testing.T) {
	t.Helper()

	var mu sync.Mutex
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	original := nowFunc
	nowFunc = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
	t.Cleanup(func() { nowFunc = original })
}

func TestCreateResource(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool, nil)
	resources := NewResourceRepository(pool, nil)

	cicd := createCategory(t, categories, "CI/CD")

	input := resourceInput("Jenkins Pipeline Tutorial", cicd.ID, "jenkins", "pipeline", "ci/cd")
	input.URL = utils.StringPtr("https://jenkins.io/doc/book/pipeline/")
	input.ImageURL = utils.StringPtr("")

	created, err := resources.CreateResource(ctx, input)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Jenkins Pipeline Tutorial", created.Title)
	assert.Equal(t, []string{"jenkins", "pipeline", "ci/cd"}, created.Tags)
	assert.Equal(t, "https://jenkins.io/doc/book/pipeline/", utils.PtrString(created.URL))
	assert.Nil(t, created.ImageURL)
	assert.Equal(t, cicd.ID, created.CategoryID)
	assert.Equal(t, *cicd, created.Category)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := resources.Resource(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateResourceUnknownCategory(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	resources := NewResourceRepository(pool, nil)

	_, err := resources.CreateResource(ctx, resourceInput("Orphan", 999))
	assert.ErrorIs(t, err, types.ErrUnknownCategory)
	assert.ErrorIs(t, err, types.ErrReferentialIntegrity)

	all, err := resources.Resources(ctx, types.ResourceFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestResourcesFilters(t *testing.T) {
	withClock(t)

	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool, nil)
	resources := NewResourceRepository(pool, nil)

	cicd := createCategory(t, categories, "CI/CD")
	k8s := createCategory(t, categories, "Kubernetes")

	for _, in := range []*types.ResourceInput{
		resourceInput("Jenkins Pipeline Tutorial", cicd.ID),
		resourceInput("GitHub Actions Workflows", cicd.ID),
		resourceInput("Kubernetes Basics", k8s.ID),
		resourceInput("Helm Charts Guide", k8s.ID),
		resourceInput("100% Uptime_Guide", k8s.ID),
	} {
		_, err := resources.CreateResource(ctx, in)
		require.NoError(t, err)
	}

	titles := func(list []*types.ResourceWithCategory) []string {
		out := make([]string, len(list))
		for i, r := range list {
			out[i] = r.Title
		}
		return out
	}

	all, err := resources.Resources(ctx, types.ResourceFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"100% Uptime_Guide",
		"Helm Charts Guide",
		"Kubernetes Basics",
		"GitHub Actions Workflows",
		"Jenkins Pipeline Tutorial",
	}, titles(all))

	byCategory, err := resources.Resources(ctx, types.ResourceFilter{CategoryID: cicd.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"GitHub Actions Workflows", "Jenkins Pipeline Tutorial"}, titles(byCategory))
	for _, r := range byCategory {
		assert.Equal(t, "CI/CD", r.Category.Name)
	}

	search, err := resources.Resources(ctx, types.ResourceFilter{Search: "KUBERNETES"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes Basics"}, titles(search))

	both, err := resources.Resources(ctx, types.ResourceFilter{CategoryID: cicd.ID, Search: "kubernetes"})
	require.NoError(t, err)
	assert.Empty(t, both)
	assert.NotNil(t, both)

	literal, err := resources.Resources(ctx, types.ResourceFilter{Search: "0%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Uptime_Guide"}, titles(literal))

	underscore, err := resources.Resources(ctx, types.ResourceFilter{Search: "_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Uptime_Guide"}, titles(underscore))

	featured, err := resources.FeaturedResources(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Uptime_Guide", "Helm Charts Guide"}, titles(featured))

	featured, err = resources.FeaturedResources(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, featured, 5)
}

func TestUpdateResource(t *testing.T) {
	withClock(t)

	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool, nil)
	resources := NewResourceRepository(pool, nil)

	cicd := createCategory(t, categories, "CI/CD")
	monitoring := createCategory(t, categories, "Monitoring")

	input := resourceInput("Prometheus", cicd.ID, "metrics")
	input.URL = utils.StringPtr("https://prometheus.io/docs/")
	created, err := resources.CreateResource(ctx, input)
	require.NoError(t, err)

	updated, err := resources.UpdateResource(ctx, created.ID, &types.ResourceInput{
		Title:      utils.StringPtr("Prometheus Monitoring"),
		CategoryID: utils.Int64Ptr(monitoring.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Prometheus Monitoring", updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, []string{"metrics"}, updated.Tags)
	assert.Equal(t, "Monitoring", updated.Category.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	cleared, err := resources.UpdateResource(ctx, created.ID, &types.ResourceInput{
		URL:  utils.StringPtr(""),
		Tags: []string{},
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.URL)
	assert.Equal(t, []string{}, cleared.Tags)

	touched, err := resources.UpdateResource(ctx, created.ID, &types.ResourceInput{})
	require.NoError(t, err)
	assert.True(t, touched.UpdatedAt.After(cleared.UpdatedAt))

	_, err = resources.UpdateResource(ctx, created.ID, &types.ResourceInput{CategoryID: utils.Int64Ptr(999)})
	assert.ErrorIs(t, err, types.ErrUnknownCategory)

	_, err = resources.UpdateResource(ctx, 999, &types.ResourceInput{Title: utils.StringPtr("x")})
	assert.ErrorIs(t, err, types.ErrResourceNotFound)

	stillThere, err := resources.Resource(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, monitoring.ID, stillThere.CategoryID)
}

func TestDeleteResource(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool, nil)
	resources := NewResourceRepository(pool, nil)

	cicd := createCategory(t, categories, "CI/CD")
	created, err := resources.CreateResource(ctx, resourceInput("Jenkins", cicd.ID))
	require.NoError(t, err)

	deleted, err := resources.DeleteResource(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = resources.Resource(ctx, created.ID)
	assert.ErrorIs(t, err, types.ErrResourceNotFound)

	deleted, err = resources.DeleteResource(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// once the last resource is gone the category can be removed
	deleted, err = categories.DeleteCategory(ctx, cicd.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

// Deleting a category while resources are being inserted into it must never
// leave a resource pointing at a missing category.
func TestConcurrentCategoryDeleteAndResourceInsert(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	categories := NewCategoryRepository(pool, nil)
	resources := NewResourceRepository(pool, nil)

	for round := 0; round < 10; round++ {
		category := createCategory(t, categories, "Race "+utils.NanoIDSize(8))

		var (
			wg        sync.WaitGroup
			deleteErr error
			deleted   bool
			insertErr error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			deleted, deleteErr = categories.DeleteCategory(ctx, category.ID)
		}()
		go func() {
			defer wg.Done()
			_, insertErr = resources.CreateResource(ctx, resourceInput("Racer", category.ID))
		}()
		wg.Wait()

		switch {
		case insertErr == nil:
			// the insert won, so the delete must have been refused
			assert.False(t, deleted)
			assert.ErrorIs(t, deleteErr, types.ErrCategoryInUse)
		case errors.Is(insertErr, types.ErrUnknownCategory):
			assert.NoError(t, deleteErr)
			assert.True(t, deleted)
		default:
			t.Fatalf("unexpected insert error: %v", insertErr)
		}

		var orphans int
		err := pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM resources r
			LEFT JOIN categories c ON c.id = r.category_id
			WHERE c.id IS NULL`).Scan(&orphans)
		require.NoError(t, err)
		assert.Zero(t, orphans)
	}
}
