package identity

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id, establishmentID uuid.UUID) error
	Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error)
	Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Patient, int, error)
}

type ProfessionalRepository interface {
	Create(ctx context.Context, p *Professional) error
	GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Professional, error)
	Update(ctx context.Context, p *Professional) error
	Delete(ctx context.Context, id, establishmentID uuid.UUID) error
	Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error)
	Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Professional, int, error)
}
