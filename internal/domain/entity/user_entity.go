package entity

import (
	"time"
)

// User is the aggregate root for the identity domain. Username and email are
// globally unique; PasswordHash holds a bcrypt hash and never leaves the
// persistence boundary.
type User struct {
	ID           int64
	FullName     string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
