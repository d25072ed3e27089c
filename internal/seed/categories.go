package seed

import (
	"context"
	"fmt"

	"hilltop/internal/utils"
	"hilltop/pkg/types"
)

// defaultCategories are inserted in this order, so ids follow it on a fresh
// database.
var defaultCategories = []types.CategoryInput{
	{
		Name:        utils.StringPtr("CI/CD"),
		Description: utils.StringPtr("Continuous Integration and Continuous Deployment tools and practices"),
		Icon:        utils.StringPtr("GitBranch"),
	},
	{
		Name:        utils.StringPtr("Kubernetes"),
		Description: utils.StringPtr("Container orchestration and management"),
		Icon:        utils.StringPtr("Container"),
	},
	{
		Name:        utils.StringPtr("Monitoring"),
		Description: utils.StringPtr("Application and infrastructure monitoring solutions"),
		Icon:        utils.StringPtr("Activity"),
	},
	{
		Name:        utils.StringPtr("Security"),
		Description: utils.StringPtr("DevOps security tools and best practices"),
		Icon:        utils.StringPtr("Shield"),
	},
	{
		Name:        utils.StringPtr("Infrastructure"),
		Description: utils.StringPtr("Infrastructure as Code and cloud management"),
		Icon:        utils.StringPtr("Server"),
	},
	{
		Name:        utils.StringPtr("Automation"),
		Description: utils.StringPtr("Automation tools and scripting solutions"),
		Icon:        utils.StringPtr("Zap"),
	},
}

// SeedCategories inserts the default categories in order.
func SeedCategories(ctx context.Context, repo CategoryStore) ([]*types.Category, error) {
	created := make([]*types.Category, 0, len(defaultCategories))

	for i := range defaultCategories {
		input := defaultCategories[i]

		category, err := repo.CreateCategory(ctx, &input)
		if err != nil {
			return nil, fmt.Errorf("failed to seed category %s: %w", *input.Name, err)
		}

		created = append(created, category)
	}

	return created, nil
}
