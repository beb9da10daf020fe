package billing

import (
	"context"

	"github.com/google/uuid"
)

type TariffRepository interface {
	Create(ctx context.Context, t *Tariff) error
	GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Tariff, error)
	Update(ctx context.Context, t *Tariff) error
	Delete(ctx context.Context, id, establishmentID uuid.UUID) error
	Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Tariff, int, error)
}

type ProcedureRepository interface {
	Create(ctx context.Context, p *Procedure) error
	GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Procedure, error)
	Update(ctx context.Context, p *Procedure) error
	Delete(ctx context.Context, id, establishmentID uuid.UUID) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Procedure, error)
	ExistsForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Procedure, int, error)
}

// AppointmentDirectory is the appointment lookup the billing service
// consumes before recording a procedure. Implemented by the scheduling
// domain and wired in main.
type AppointmentDirectory interface {
	Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error)
}
