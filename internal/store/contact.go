package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hilltop/internal/utils"
	"hilltop/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contactTableName = "contacts"

var contactColumns = utils.StructTagValues(types.Contact{})

type ContactRepository struct {
	repository
}

func NewContactRepository(pool *pgxpool.Pool, observer QueryObserver) *ContactRepository {
	return &ContactRepository{repository: newRepository(pool, observer)}
}

func (r *ContactRepository) CreateContact(ctx context.Context, input *types.ContactInput) (contact *types.Contact, err error) {
	defer r.observe(time.Now(), "insert", contactTableName, &err)

	values := utils.PresentFieldsToMap(input)
	values["contact"] = utils.NullableString(input.Contact)
	values["address"] = utils.NullableString(input.Address)
	values["created_at"] = nowFunc()

	query, args, err := psql().
		Insert(contactTableName).
		SetMap(values).
		Suffix("RETURNING " + strings.Join(contactColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert query: %w", err)
	}

	contact = new(types.Contact)
	err = pgxscan.Get(ctx, r.pool, contact, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact: %w", translateError(err, nil))
	}

	return contact, nil
}

// Contacts lists every contact message, newest first.
func (r *ContactRepository) Contacts(ctx context.Context) (contacts []*types.Contact, err error) {
	defer r.observe(time.Now(), "select", contactTableName, &err)

	query, args, err := psql().
		Select(contactColumns...).
		From(contactTableName).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contacts query: %w", err)
	}

	contacts = make([]*types.Contact, 0)
	err = pgxscan.Select(ctx, r.pool, &contacts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", translateError(err, nil))
	}

	return contacts, nil
}
