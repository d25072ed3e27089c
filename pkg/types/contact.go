package types

import "time"

type Contact struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Contact   *string   `db:"contact" json:"contact"`
	Address   *string   `db:"address" json:"address"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ContactInput struct {
	Name    *string `db:"name" json:"name" validate:"required,min=1,max=200"`
	Email   *string `db:"email" json:"email" validate:"required,email"`
	Contact *string `db:"contact" json:"contact" validate:"omitnil,max=200"`
	Address *string `db:"address" json:"address" validate:"omitnil,max=500"`
	Subject *string `db:"subject" json:"subject" validate:"required,min=1,max=300"`
	Message *string `db:"message" json:"message" validate:"required,min=1,max=10000"`
}
