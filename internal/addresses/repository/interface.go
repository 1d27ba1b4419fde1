package repository

import (
	"context"
	"time"

	"laundry_backend/internal/resolver"

	"github.com/google/uuid"
)

// Address is a saved address book entry.
type Address struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Components resolver.AddressComponents
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Repository defines address book storage operations.
type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, components resolver.AddressComponents) (Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
