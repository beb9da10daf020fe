package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients      PatientRepository
	professionals ProfessionalRepository
}

func NewService(patients PatientRepository, professionals ProfessionalRepository) *Service {
	return &Service{patients: patients, professionals: professionals}
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.DocumentID == "" {
		return fmt.Errorf("%w: document_id is required", ErrValidation)
	}
	if p.LastName == "" || p.FirstName == "" {
		return fmt.Errorf("%w: last_name and first_name are required", ErrValidation)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id, establishmentID uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id, establishmentID)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.DocumentID == "" {
		return fmt.Errorf("%w: document_id is required", ErrValidation)
	}
	if p.LastName == "" || p.FirstName == "" {
		return fmt.Errorf("%w: last_name and first_name are required", ErrValidation)
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id, establishmentID uuid.UUID) error {
	return s.patients.Delete(ctx, id, establishmentID)
}

func (s *Service) SearchPatients(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, establishmentID, params, limit, offset)
}

// -- Professionals --

func (s *Service) CreateProfessional(ctx context.Context, p *Professional) error {
	if p.LastName == "" || p.FirstName == "" {
		return fmt.Errorf("%w: last_name and first_name are required", ErrValidation)
	}
	if p.Specialty == "" {
		return fmt.Errorf("%w: specialty is required", ErrValidation)
	}
	return s.professionals.Create(ctx, p)
}

func (s *Service) GetProfessional(ctx context.Context, id, establishmentID uuid.UUID) (*Professional, error) {
	return s.professionals.GetByID(ctx, id, establishmentID)
}

func (s *Service) UpdateProfessional(ctx context.Context, p *Professional) error {
	if p.LastName == "" || p.FirstName == "" {
		return fmt.Errorf("%w: last_name and first_name are required", ErrValidation)
	}
	if p.Specialty == "" {
		return fmt.Errorf("%w: specialty is required", ErrValidation)
	}
	return s.professionals.Update(ctx, p)
}

func (s *Service) DeleteProfessional(ctx context.Context, id, establishmentID uuid.UUID) error {
	return s.professionals.Delete(ctx, id, establishmentID)
}

func (s *Service) SearchProfessionals(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Professional, int, error) {
	return s.professionals.Search(ctx, establishmentID, params, limit, offset)
}
