package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hilltop/internal/utils"
	"hilltop/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryTableName = "categories"

var categoryColumns = utils.StructTagValues(types.Category{})

type CategoryRepository struct {
	repository
}

func NewCategoryRepository(pool *pgxpool.Pool, observer QueryObserver) *CategoryRepository {
	return &CategoryRepository{repository: newRepository(pool, observer)}
}

func (r *CategoryRepository) Categories(ctx context.Context) (categories []*types.Category, err error) {
	defer r.observe(time.Now(), "select", categoryTableName, &err)

	query, args, err := psql().
		Select(categoryColumns...).
		From(categoryTableName).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate categories query: %w", err)
	}

	categories = make([]*types.Category, 0)
	err = pgxscan.Select(ctx, r.pool, &categories, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", translateError(err, nil))
	}

	return categories, nil
}

func (r *CategoryRepository) Category(ctx context.Context, id int64) (category *types.Category, err error) {
	defer r.observe(time.Now(), "select", categoryTableName, &err)

	query, args, err := psql().
		Select(categoryColumns...).
		From(categoryTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category query: %w", err)
	}

	category = new(types.Category)
	err = pgxscan.Get(ctx, r.pool, category, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("category %d: %w", id, types.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("failed to fetch category: %w", translateError(err, nil))
	}

	return category, nil
}

// Count reports how many categories exist.
func (r *CategoryRepository) Count(ctx context.Context) (count int64, err error) {
	defer r.observe(time.Now(), "select", categoryTableName, &err)

	query, args, err := psql().
		Select("COUNT(*)").
		From(categoryTableName).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate category count query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", translateError(err, nil))
	}

	return count, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, input *types.CategoryInput) (category *types.Category, err error) {
	defer r.observe(time.Now(), "insert", categoryTableName, &err)

	values := utils.PresentFieldsToMap(input)
	values["created_at"] = nowFunc()

	query, args, err := psql().
		Insert(categoryTableName).
		SetMap(values).
		Suffix("RETURNING " + strings.Join(categoryColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert query: %w", err)
	}

	category = new(types.Category)
	err = pgxscan.Get(ctx, r.pool, category, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", translateError(err, nil))
	}

	return category, nil
}

// UpdateCategory applies the non-nil fields of input. An empty patch returns
// the current row unchanged.
func (r *CategoryRepository) UpdateCategory(ctx context.Context, id int64, input *types.CategoryInput) (*types.Category, error) {
	values := utils.PresentFieldsToMap(input)
	if len(values) == 0 {
		return r.Category(ctx, id)
	}

	return r.updateCategory(ctx, id, values)
}

func (r *CategoryRepository) updateCategory(ctx context.Context, id int64, values map[string]any) (category *types.Category, err error) {
	defer r.observe(time.Now(), "update", categoryTableName, &err)

	query, args, err := psql().
		Update(categoryTableName).
		SetMap(values).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(categoryColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update query: %w", err)
	}

	category = new(types.Category)
	err = pgxscan.Get(ctx, r.pool, category, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("category %d: %w", id, types.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("failed to update category: %w", translateError(err, nil))
	}

	return category, nil
}

// DeleteCategory reports whether a row was removed. A category that resources
// still point at is refused with ErrCategoryInUse.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) (deleted bool, err error) {
	defer r.observe(time.Now(), "delete", categoryTableName, &err)

	query, args, err := psql().
		Delete(categoryTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", translateError(err, types.ErrCategoryInUse))
	}

	return tag.RowsAffected() > 0, nil
}
