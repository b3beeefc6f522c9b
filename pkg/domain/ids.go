// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "nagrik/pkg/domain-errors"
)

// UserID identifies the citizen on whose behalf a verification is submitted.
type UserID uuid.UUID

// ParseUserID parses a UserID at a trust boundary (handlers, API inputs).
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeBadRequest, "invalid user ID format")
	}
	return UserID(id), nil
}

// NewUserID generates a new random UserID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id UserID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText encodes the ID in canonical UUID form for JSON and log output.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText parses the canonical UUID form.
func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = UserID(parsed)
	return nil
}
