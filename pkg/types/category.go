package types

import "time"

type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon" json:"icon"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// CategoryInput is the validated shape of a category write. On create every
// field is set; on update nil fields are left untouched.
type CategoryInput struct {
	Name        *string `db:"name" json:"name" validate:"required,min=1,max=100"`
	Description *string `db:"description" json:"description" validate:"required,min=1"`
	Icon        *string `db:"icon" json:"icon" validate:"required,min=1,max=100"`
}
