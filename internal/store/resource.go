package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hilltop/internal/utils"
	"hilltop/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resourceTableName = "resources"

var (
	resourceColumns = utils.StructTagValues(types.Resource{})

	// resourceViewColumns selects a resource with its category nested under
	// the "category." prefix that scany maps onto ResourceWithCategory.
	resourceViewColumns = append(
		utils.PrefixSliceOfStrings(resourceTableName, resourceColumns),
		utils.AliasSliceOfStrings(categoryTableName, "category", categoryColumns)...,
	)
)

type ResourceRepository struct {
	repository
}

func NewResourceRepository(pool *pgxpool.Pool, observer QueryObserver) *ResourceRepository {
	return &ResourceRepository{repository: newRepository(pool, observer)}
}

func selectResourceView() sq.SelectBuilder {
	return psql().
		Select(resourceViewColumns...).
		From(resourceTableName).
		InnerJoin(categoryTableName + " ON " + categoryTableName + ".id = " + resourceTableName + ".category_id").
		OrderBy(resourceTableName+".created_at DESC", resourceTableName+".id DESC")
}

// Resources lists resources newest first. Filters in the filter apply
// together; a zero filter lists everything.
func (r *ResourceRepository) Resources(ctx context.Context, filter types.ResourceFilter) (resources []*types.ResourceWithCategory, err error) {
	defer r.observe(time.Now(), "select", resourceTableName, &err)

	builder := selectResourceView()
	if filter.CategoryID > 0 {
		builder = builder.Where(sq.Eq{resourceTableName + ".category_id": filter.CategoryID})
	}
	if filter.Search != "" {
		builder = builder.Where(sq.ILike{resourceTableName + ".title": containsPattern(filter.Search)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resources query: %w", err)
	}

	resources = make([]*types.ResourceWithCategory, 0)
	err = pgxscan.Select(ctx, r.pool, &resources, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resources: %w", translateError(err, nil))
	}

	return resources, nil
}

// FeaturedResources returns the limit most recent resources.
func (r *ResourceRepository) FeaturedResources(ctx context.Context, limit int) (resources []*types.ResourceWithCategory, err error) {
	defer r.observe(time.Now(), "select", resourceTableName, &err)

	if limit <= 0 {
		limit = types.DefaultFeaturedLimit
	}

	query, args, err := selectResourceView().
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate featured resources query: %w", err)
	}

	resources = make([]*types.ResourceWithCategory, 0, limit)
	err = pgxscan.Select(ctx, r.pool, &resources, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured resources: %w", translateError(err, nil))
	}

	return resources, nil
}

func (r *ResourceRepository) Resource(ctx context.Context, id int64) (resource *types.ResourceWithCategory, err error) {
	defer r.observe(time.Now(), "select", resourceTableName, &err)

	return resourceView(ctx, r.pool, id)
}

func resourceView(ctx context.Context, q pgxscan.Querier, id int64) (*types.ResourceWithCategory, error) {
	query, args, err := selectResourceView().
		Where(sq.Eq{resourceTableName + ".id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate resource query: %w", err)
	}

	var resource types.ResourceWithCategory
	err = pgxscan.Get(ctx, q, &resource, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("resource %d: %w", id, types.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("failed to fetch resource: %w", translateError(err, nil))
	}

	return &resource, nil
}

// CreateResource inserts the resource and returns it joined with its
// category. The foreign key rejects an unknown category in the same
// statement as the insert.
func (r *ResourceRepository) CreateResource(ctx context.Context, input *types.ResourceInput) (resource *types.ResourceWithCategory, err error) {
	defer r.observe(time.Now(), "insert", resourceTableName, &err)

	now := nowFunc()
	values := resourceValues(input)
	values["created_at"] = now
	values["updated_at"] = now
	if _, ok := values["tags"]; !ok {
		values["tags"] = []string{}
	}

	query, args, err := psql().
		Insert(resourceTableName).
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert query: %w", err)
	}

	return r.writeAndRead(ctx, query, args)
}

// UpdateResource applies the non-nil fields of input and always moves
// updated_at forward.
func (r *ResourceRepository) UpdateResource(ctx context.Context, id int64, input *types.ResourceInput) (resource *types.ResourceWithCategory, err error) {
	defer r.observe(time.Now(), "update", resourceTableName, &err)

	values := resourceValues(input)
	values["updated_at"] = nowFunc()

	query, args, err := psql().
		Update(resourceTableName).
		SetMap(values).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update query: %w", err)
	}

	resource, err = r.writeAndRead(ctx, query, args)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("resource %d: %w", id, types.ErrResourceNotFound)
	}

	return resource, err
}

// writeAndRead runs a write returning the resource id and reads the joined
// view back inside one transaction.
func (r *ResourceRepository) writeAndRead(ctx context.Context, query string, args []any) (*types.ResourceWithCategory, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", translateError(err, nil))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to write resource: %w", translateError(err, types.ErrUnknownCategory))
	}

	resource, err := resourceView(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resource write: %w", translateError(err, types.ErrUnknownCategory))
	}

	return resource, nil
}

func (r *ResourceRepository) DeleteResource(ctx context.Context, id int64) (deleted bool, err error) {
	defer r.observe(time.Now(), "delete", resourceTableName, &err)

	query, args, err := psql().
		Delete(resourceTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete resource: %w", translateError(err, nil))
	}

	return tag.RowsAffected() > 0, nil
}

// resourceValues maps the present fields of input to columns. Empty links are
// written as NULL.
func resourceValues(input *types.ResourceInput) map[string]any {
	values := utils.PresentFieldsToMap(input)
	if input.URL != nil {
		values["url"] = utils.NullableString(input.URL)
	}
	if input.ImageURL != nil {
		values["image_url"] = utils.NullableString(input.ImageURL)
	}
	return values
}
