package application

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is the uniform authentication failure. It does
	// not distinguish unknown user from wrong password, so responses cannot
	// be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingUserID rejects an update with no payload or no id before
	// the store is touched.
	ErrMissingUserID = errors.New("user or user id must not be nil")
)

// FieldExistsError reports a create-time uniqueness violation and names the
// conflicting field. Email is always checked before username.
type FieldExistsError struct {
	Field string
}

func (e *FieldExistsError) Error() string {
	return e.Field + " already in use"
}

// NotFoundError reports an operation on an id absent from the store.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user not found with id: %d", e.ID)
}
