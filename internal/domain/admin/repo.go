package admin

import (
	"context"

	"github.com/google/uuid"
)

type EstablishmentRepository interface {
	Create(ctx context.Context, e *Establishment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Establishment, error)
	Update(ctx context.Context, e *Establishment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Establishment, int, error)
}

type StaffUserRepository interface {
	Create(ctx context.Context, u *StaffUser) error
	GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*StaffUser, error)
	GetByEmail(ctx context.Context, email string, establishmentID uuid.UUID) (*StaffUser, error)
	Update(ctx context.Context, u *StaffUser) error
	Delete(ctx context.Context, id, establishmentID uuid.UUID) error
	Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*StaffUser, int, error)
}
