package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	HashedPassword string    `json:"-" db:"password_hash"`
	Tagline        string    `json:"tagline,omitempty" db:"tagline"`
	Description    string    `json:"description,omitempty" db:"description"`
	PhotoURL       string    `json:"photo,omitempty" db:"photo_url"`
	IsVerified     bool      `json:"isVerified" db:"is_verified"`
	IsAdmin        bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// FieldChange records one profile field edit for the notification dispatcher.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}
