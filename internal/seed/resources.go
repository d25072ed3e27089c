package seed

import (
	"context"
	"fmt"

	"hilltop/internal/utils"
	"hilltop/pkg/types"
)

type defaultResource struct {
	Category    string
	Title       string
	Description string
	URL         string
	Tags        []string
}

var defaultResources = []defaultResource{
	{
		Category:    "CI/CD",
		Title:       "Jenkins Pipeline Tutorial",
		Description: "Comprehensive guide to building CI/CD pipelines with Jenkins",
		URL:         "https://jenkins.io/doc/book/pipeline/",
		Tags:        []string{"jenkins", "pipeline", "ci/cd"},
	},
	{
		Category:    "CI/CD",
		Title:       "GitHub Actions Workflows",
		Description: "Learn to automate your workflow with GitHub Actions",
		URL:         "https://docs.github.com/en/actions",
		Tags:        []string{"github", "actions", "automation"},
	},
	{
		Category:    "Kubernetes",
		Title:       "Kubernetes Basics",
		Description: "Introduction to Kubernetes concepts and deployment",
		URL:         "https://kubernetes.io/docs/tutorials/",
		Tags:        []string{"kubernetes", "containers", "orchestration"},
	},
	{
		Category:    "Kubernetes",
		Title:       "Helm Charts Guide",
		Description: "Package manager for Kubernetes applications",
		URL:         "https://helm.sh/docs/",
		Tags:        []string{"helm", "kubernetes", "packages"},
	},
	{
		Category:    "Monitoring",
		Title:       "Prometheus Monitoring",
		Description: "Open-source monitoring and alerting toolkit",
		URL:         "https://prometheus.io/docs/",
		Tags:        []string{"prometheus", "monitoring", "metrics"},
	},
	{
		Category:    "Monitoring",
		Title:       "Grafana Dashboards",
		Description: "Create beautiful monitoring dashboards",
		URL:         "https://grafana.com/docs/",
		Tags:        []string{"grafana", "dashboards", "visualization"},
	},
}

// SeedResources inserts the default resources, resolving each one's category
// by name from categories.
func SeedResources(ctx context.Context, repo ResourceStore, categories []*types.Category) ([]*types.ResourceWithCategory, error) {
	byName := make(map[string]*types.Category, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}

	created := make([]*types.ResourceWithCategory, 0, len(defaultResources))

	for _, r := range defaultResources {
		category, ok := byName[r.Category]
		if !ok {
			return nil, fmt.Errorf("failed to seed resource %s: %w", r.Title, types.ErrUnknownCategory)
		}

		resource, err := repo.CreateResource(ctx, &types.ResourceInput{
			Title:       utils.StringPtr(r.Title),
			Description: utils.StringPtr(r.Description),
			URL:         utils.StringPtr(r.URL),
			CategoryID:  utils.Int64Ptr(category.ID),
			Tags:        append([]string(nil), r.Tags...),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed resource %s: %w", r.Title, err)
		}

		created = append(created, resource)
	}

	return created, nil
}
