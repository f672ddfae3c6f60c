package models

import (
	"time"

	"github.com/google/uuid"
)

type Agent struct {
	ID           uuid.UUID `db:"id"`
	FullName     string    `db:"full_name"`
	PhoneNumber  string    `db:"phone_number"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
