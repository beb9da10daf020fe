package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	GetByID(ctx context.Context, id, establishmentID uuid.UUID) (*Appointment, error)
	// ListByProfessionalAndTime returns every appointment of the professional
	// at exactly the given instant, regardless of status.
	ListByProfessionalAndTime(ctx context.Context, establishmentID, professionalID uuid.UUID, at time.Time) ([]*Appointment, error)
	Insert(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id, establishmentID uuid.UUID) error
	HasDependentProcedures(ctx context.Context, appointmentID uuid.UUID) (bool, error)
	Search(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Appointment, int, error)
}

// PatientDirectory is the patient lookup the service consumes. Implemented
// by the identity domain and wired in main.
type PatientDirectory interface {
	Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error)
}

// ProfessionalDirectory is the professional lookup the service consumes.
type ProfessionalDirectory interface {
	Exists(ctx context.Context, id, establishmentID uuid.UUID) (bool, error)
}
