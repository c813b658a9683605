package models

import (
	"time"

	"github.com/google/uuid"
)

// Parent defines the guardian account model based on the 'parents' table
type Parent struct {
	ID           int64     `json:"id" db:"id"`
	PublicID     uuid.UUID `json:"publicId" db:"public_id"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Email        string    `json:"email" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
