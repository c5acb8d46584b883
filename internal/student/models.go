package student

import (
	"context"
	"errors"
)

// Students are always scoped to the owning instructor account; every
// Store method takes the owner id and matches nothing outside it.

var (
	ErrNotFound    = errors.New("student not found")
	ErrNumberTaken = errors.New("number already used")
	ErrInvalid     = errors.New("invalid student")
)

type Student struct {
	ID           string  `json:"id"`
	Number       int     `json:"number"`
	Name         string  `json:"name"`
	Notes        string  `json:"notes"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	PhotoURL     *string `json:"photo_url,omitempty"`
	CurrentNaqza int     `json:"current_naqza"`
	CreatedAt    int64   `json:"created_at"`
	UpdatedAt    int64   `json:"updated_at"`
}

// UpdateInput is a partial update; nil fields are left untouched.
// CurrentNaqza here is the instructor's manual override and bypasses
// the automatic progression rule.
type UpdateInput struct {
	Number       *int    `json:"number"`
	Name         *string `json:"name"`
	Notes        *string `json:"notes"`
	DateOfBirth  *string `json:"date_of_birth"`
	PhotoURL     *string `json:"photo_url"`
	CurrentNaqza *int    `json:"current_naqza"`
}

type Store interface {
	List(ctx context.Context, ownerID string) ([]Student, error)
	Get(ctx context.Context, ownerID, id string) (Student, error)
	Create(ctx context.Context, ownerID string, s Student) (Student, error)
	Update(ctx context.Context, ownerID, id string, in UpdateInput) (Student, error)
	Delete(ctx context.Context, ownerID, id string) error

	// AdvanceNaqza applies the automatic progression step: a relative
	// decrement floored at 1, atomic at the row level.
	AdvanceNaqza(ctx context.Context, ownerID, id string) error
}

// Validate checks the fields an instructor supplies on create.
func Validate(number int, name string) error {
	if name == "" {
		return ErrInvalid
	}
	if number < 1 || number > 30 {
		return ErrInvalid
	}
	return nil
}
