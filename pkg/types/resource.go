package types

import "time"

type Resource struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	URL         *string   `db:"url" json:"url"`
	CategoryID  int64     `db:"category_id" json:"categoryId"`
	Tags        []string  `db:"tags" json:"tags"`
	ImageURL    *string   `db:"image_url" json:"imageUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ResourceWithCategory is the read view of a resource: the owning category is
// resolved and embedded. It is never written back.
type ResourceWithCategory struct {
	Resource
	Category Category `db:"category" json:"category"`
}

// ResourceInput is the validated shape of a resource write.
//
// URL and ImageURL pointing at an empty string mean "no link": the column is
// stored as NULL. A nil Tags slice is absent, an empty one clears the tags.
type ResourceInput struct {
	Title       *string  `db:"title" json:"title" validate:"required,min=1,max=300"`
	Description *string  `db:"description" json:"description" validate:"required,min=1"`
	URL         *string  `db:"url" json:"url" validate:"omitnil,absurl"`
	CategoryID  *int64   `db:"category_id" json:"categoryId" validate:"required,gt=0"`
	Tags        []string `db:"tags" json:"tags" validate:"omitnil,dive,min=1,max=64"`
	ImageURL    *string  `db:"image_url" json:"imageUrl" validate:"omitnil,absurl"`
}

// ResourceFilter narrows a resource listing. Zero values mean no filter; both
// filters apply together when set.
type ResourceFilter struct {
	CategoryID int64
	Search     string
}

const DefaultFeaturedLimit = 6
