package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	for _, existing := range m.patients {
		if existing.EstablishmentID == p.EstablishmentID && existing.DocumentID == p.DocumentID {
			return ErrDuplicateDocument
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id, establishmentID uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok || p.EstablishmentID != establishmentID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	existing, ok := m.patients[p.ID]
	if !ok || existing.EstablishmentID != p.EstablishmentID {
		return ErrNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id, establishmentID uuid.UUID) error {
	p, ok := m.patients[id]
	if !ok || p.EstablishmentID != establishmentID {
		return ErrNotFound
	}
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) Exists(_ context.Context, id, establishmentID uuid.UUID) (bool, error) {
	p, ok := m.patients[id]
	return ok && p.EstablishmentID == establishmentID, nil
}

func (m *mockPatientRepo) Search(_ context.Context, establishmentID uuid.UUID, _ map[string]string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.EstablishmentID == establishmentID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

type mockProfessionalRepo struct {
	professionals map[uuid.UUID]*Professional
}

func newMockProfessionalRepo() *mockProfessionalRepo {
	return &mockProfessionalRepo{professionals: make(map[uuid.UUID]*Professional)}
}

func (m *mockProfessionalRepo) Create(_ context.Context, p *Professional) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.professionals[p.ID] = &cp
	return nil
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, id, establishmentID uuid.UUID) (*Professional, error) {
	p, ok := m.professionals[id]
	if !ok || p.EstablishmentID != establishmentID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockProfessionalRepo) Update(_ context.Context, p *Professional) error {
	existing, ok := m.professionals[p.ID]
	if !ok || existing.EstablishmentID != p.EstablishmentID {
		return ErrNotFound
	}
	cp := *p
	m.professionals[p.ID] = &cp
	return nil
}

func (m *mockProfessionalRepo) Delete(_ context.Context, id, establishmentID uuid.UUID) error {
	p, ok := m.professionals[id]
	if !ok || p.EstablishmentID != establishmentID {
		return ErrNotFound
	}
	delete(m.professionals, id)
	return nil
}

func (m *mockProfessionalRepo) Exists(_ context.Context, id, establishmentID uuid.UUID) (bool, error) {
	p, ok := m.professionals[id]
	return ok && p.EstablishmentID == establishmentID, nil
}

func (m *mockProfessionalRepo) Search(_ context.Context, establishmentID uuid.UUID, _ map[string]string, limit, offset int) ([]*Professional, int, error) {
	var result []*Professional
	for _, p := range m.professionals {
		if p.EstablishmentID == establishmentID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func newTestService() (*Service, uuid.UUID) {
	return NewService(newMockPatientRepo(), newMockProfessionalRepo()), uuid.New()
}

func TestCreatePatient(t *testing.T) {
	svc, estID := newTestService()
	p := &Patient{EstablishmentID: estID, DocumentID: "30123456", LastName: "Gomez", FirstName: "Ana"}

	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected an id to be assigned")
	}
}

func TestCreatePatient_DuplicateDocument(t *testing.T) {
	svc, estID := newTestService()
	first := &Patient{EstablishmentID: estID, DocumentID: "30123456", LastName: "Gomez", FirstName: "Ana"}
	if err := svc.CreatePatient(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	dup := &Patient{EstablishmentID: estID, DocumentID: "30123456", LastName: "Diaz", FirstName: "Luis"}
	if err := svc.CreatePatient(context.Background(), dup); !errors.Is(err, ErrDuplicateDocument) {
		t.Errorf("expected ErrDuplicateDocument, got %v", err)
	}
}

func TestCreatePatient_SameDocumentOtherEstablishment(t *testing.T) {
	svc, estID := newTestService()
	first := &Patient{EstablishmentID: estID, DocumentID: "30123456", LastName: "Gomez", FirstName: "Ana"}
	if err := svc.CreatePatient(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	other := &Patient{EstablishmentID: uuid.New(), DocumentID: "30123456", LastName: "Gomez", FirstName: "Ana"}
	if err := svc.CreatePatient(context.Background(), other); err != nil {
		t.Errorf("document uniqueness is per establishment: %v", err)
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc, estID := newTestService()

	p := &Patient{EstablishmentID: estID, LastName: "Gomez", FirstName: "Ana"}
	if err := svc.CreatePatient(context.Background(), p); !errors.Is(err, ErrValidation) {
		t.Errorf("missing document: expected ErrValidation, got %v", err)
	}

	p = &Patient{EstablishmentID: estID, DocumentID: "30123456"}
	if err := svc.CreatePatient(context.Background(), p); !errors.Is(err, ErrValidation) {
		t.Errorf("missing names: expected ErrValidation, got %v", err)
	}
}

func TestGetPatient_WrongEstablishment(t *testing.T) {
	svc, estID := newTestService()
	p := &Patient{EstablishmentID: estID, DocumentID: "30123456", LastName: "Gomez", FirstName: "Ana"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetPatient(context.Background(), p.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign establishment, got %v", err)
	}
}

func TestCreateProfessional_Validation(t *testing.T) {
	svc, estID := newTestService()

	p := &Professional{EstablishmentID: estID, LastName: "Perez", FirstName: "Marta"}
	if err := svc.CreateProfessional(context.Background(), p); !errors.Is(err, ErrValidation) {
		t.Errorf("missing specialty: expected ErrValidation, got %v", err)
	}

	p.Specialty = "Cardiology"
	if err := svc.CreateProfessional(context.Background(), p); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDeleteProfessional_NotFound(t *testing.T) {
	svc, estID := newTestService()
	if err := svc.DeleteProfessional(context.Background(), uuid.New(), estID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
