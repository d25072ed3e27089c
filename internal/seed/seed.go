package seed

import (
	"context"
	"fmt"

	"hilltop/pkg/types"
)

type CategoryStore interface {
	Count(ctx context.Context) (int64, error)
	CreateCategory(ctx context.Context, input *types.CategoryInput) (*types.Category, error)
}

type ResourceStore interface {
	CreateResource(ctx context.Context, input *types.ResourceInput) (*types.ResourceWithCategory, error)
}

type Result struct {
	// Skipped is set when the catalog already had categories and nothing was
	// written.
	Skipped    bool
	Categories []*types.Category
	Resources  []*types.ResourceWithCategory
}

// Defaults fills an empty catalog with the starter categories and resources.
// A catalog with at least one category is left alone.
func Defaults(ctx context.Context, categories CategoryStore, resources ResourceStore) (*Result, error) {
	count, err := categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing categories: %w", err)
	}

	if count > 0 {
		return &Result{Skipped: true}, nil
	}

	result := new(Result)

	result.Categories, err = SeedCategories(ctx, categories)
	if err != nil {
		return nil, err
	}

	result.Resources, err = SeedResources(ctx, resources, result.Categories)
	if err != nil {
		return nil, err
	}

	return result, nil
}
