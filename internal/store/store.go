package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hilltop/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

const categoryNameConstraint = "categories_name_key"

// nowFunc stamps rows. Postgres keeps microseconds, so the value is truncated
// to make written and re-read timestamps compare equal.
var nowFunc = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// QueryObserver receives the outcome of every statement a repository runs.
type QueryObserver interface {
	ObserveQuery(operation, table string, duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveQuery(string, string, time.Duration, error) {}

type repository struct {
	pool     *pgxpool.Pool
	observer QueryObserver
}

func newRepository(pool *pgxpool.Pool, observer QueryObserver) repository {
	if observer == nil {
		observer = nopObserver{}
	}
	return repository{pool: pool, observer: observer}
}

// observe is deferred with the named error result of the calling method.
// Missing rows are an expected outcome and are not reported as failures.
func (r repository) observe(start time.Time, operation, table string, errp *error) {
	err := *errp
	if errors.Is(err, types.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		err = nil
	}
	r.observer.ObserveQuery(operation, table, time.Since(start), err)
}

// translateError maps driver errors onto the error kinds in pkg/types. fkErr is
// returned for foreign key violations since only the caller knows which side
// of the relation failed.
func translateError(err error, fkErr error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			if pgErr.ConstraintName == categoryNameConstraint {
				return fmt.Errorf("%w: %w", types.ErrCategoryNameTaken, err)
			}
			return fmt.Errorf("%w: %w", types.ErrConflict, err)
		case foreignKeyViolation:
			if fkErr != nil {
				return fmt.Errorf("%w: %w", fkErr, err)
			}
			return fmt.Errorf("%w: %w", types.ErrReferentialIntegrity, err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the
// column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
