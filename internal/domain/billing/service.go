package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	tariffs      TariffRepository
	procedures   ProcedureRepository
	appointments AppointmentDirectory
}

func NewService(tariffs TariffRepository, procedures ProcedureRepository, appointments AppointmentDirectory) *Service {
	return &Service{tariffs: tariffs, procedures: procedures, appointments: appointments}
}

// -- Tariffs --

func (s *Service) CreateTariff(ctx context.Context, t *Tariff) error {
	if t.Code == "" {
		return fmt.Errorf("%w: code is required", ErrValidation)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if t.Value < 0 {
		return fmt.Errorf("%w: value must not be negative", ErrValidation)
	}
	return s.tariffs.Create(ctx, t)
}

func (s *Service) GetTariff(ctx context.Context, id, establishmentID uuid.UUID) (*Tariff, error) {
	return s.tariffs.GetByID(ctx, id, establishmentID)
}

func (s *Service) UpdateTariff(ctx context.Context, t *Tariff) error {
	if t.Code == "" {
		return fmt.Errorf("%w: code is required", ErrValidation)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if t.Value < 0 {
		return fmt.Errorf("%w: value must not be negative", ErrValidation)
	}
	return s.tariffs.Update(ctx, t)
}

func (s *Service) DeleteTariff(ctx context.Context, id, establishmentID uuid.UUID) error {
	return s.tariffs.Delete(ctx, id, establishmentID)
}

func (s *Service) SearchTariffs(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Tariff, int, error) {
	return s.tariffs.Search(ctx, establishmentID, params, limit, offset)
}

// -- Procedures --

// CreateProcedure records a billable action against an appointment. The
// appointment must exist in the same establishment.
func (s *Service) CreateProcedure(ctx context.Context, p *Procedure) error {
	if p.AppointmentID == uuid.Nil {
		return fmt.Errorf("%w: appointment_id is required", ErrValidation)
	}
	if p.Code == "" {
		return fmt.Errorf("%w: code is required", ErrValidation)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	ok, err := s.appointments.Exists(ctx, p.AppointmentID, p.EstablishmentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAppointmentNotFound
	}

	return s.procedures.Create(ctx, p)
}

func (s *Service) GetProcedure(ctx context.Context, id, establishmentID uuid.UUID) (*Procedure, error) {
	return s.procedures.GetByID(ctx, id, establishmentID)
}

func (s *Service) UpdateProcedure(ctx context.Context, p *Procedure) error {
	if p.Code == "" {
		return fmt.Errorf("%w: code is required", ErrValidation)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.procedures.Update(ctx, p)
}

func (s *Service) DeleteProcedure(ctx context.Context, id, establishmentID uuid.UUID) error {
	return s.procedures.Delete(ctx, id, establishmentID)
}

func (s *Service) ListProceduresByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Procedure, error) {
	return s.procedures.ListByAppointment(ctx, appointmentID)
}

func (s *Service) SearchProcedures(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Procedure, int, error) {
	return s.procedures.Search(ctx, establishmentID, params, limit, offset)
}
