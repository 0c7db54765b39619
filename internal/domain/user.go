package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can log in and own history records.
// Email is stored lower-cased and is unique.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}
