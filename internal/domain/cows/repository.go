package cows

import (
	"context"
	"errors"
)

// ErrNotFound lo devuelven los repos cuando la vaca no existe.
var ErrNotFound = errors.New("cow not found")

type Repository interface {
	// NextID reserva el siguiente id con formato COW001.
	NextID(ctx context.Context) (string, error)
	Create(ctx context.Context, c Cow) error
	Update(ctx context.Context, c Cow) error
	GetByID(ctx context.Context, id string) (Cow, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Cow, error)
	Delete(ctx context.Context, id string) error
}
