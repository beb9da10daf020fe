package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinica/clinica/internal/domain/scheduling"
)

// stubApptRepo backs the appointmentDirectory adapter with a fixed set of
// appointment ids.
type stubApptRepo struct {
	appts map[uuid.UUID]uuid.UUID // appointment id -> establishment id
}

func (s *stubApptRepo) GetByID(_ context.Context, id, establishmentID uuid.UUID) (*scheduling.Appointment, error) {
	est, ok := s.appts[id]
	if !ok || est != establishmentID {
		return nil, scheduling.ErrNotFound
	}
	return &scheduling.Appointment{ID: id, EstablishmentID: est}, nil
}

func (s *stubApptRepo) ListByProfessionalAndTime(context.Context, uuid.UUID, uuid.UUID, time.Time) ([]*scheduling.Appointment, error) {
	return nil, nil
}
func (s *stubApptRepo) Insert(context.Context, *scheduling.Appointment) error { return nil }
func (s *stubApptRepo) Update(context.Context, *scheduling.Appointment) error { return nil }
func (s *stubApptRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error    { return nil }
func (s *stubApptRepo) HasDependentProcedures(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}
func (s *stubApptRepo) Search(context.Context, uuid.UUID, map[string]string, int, int) ([]*scheduling.Appointment, int, error) {
	return nil, 0, nil
}

func TestAppointmentDirectory_Exists(t *testing.T) {
	apptID := uuid.New()
	estID := uuid.New()
	dir := &appointmentDirectory{repo: &stubApptRepo{appts: map[uuid.UUID]uuid.UUID{apptID: estID}}}

	ok, err := dir.Exists(context.Background(), apptID, estID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected appointment to exist")
	}

	ok, err = dir.Exists(context.Background(), uuid.New(), estID)
	if err != nil {
		t.Fatalf("a missing appointment is not an error: %v", err)
	}
	if ok {
		t.Error("unknown appointment reported as existing")
	}

	ok, err = dir.Exists(context.Background(), apptID, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("appointment should not be visible from another establishment")
	}
}
