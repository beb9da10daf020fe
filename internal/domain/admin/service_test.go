package admin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/clinica/clinica/internal/platform/auth"
)

type mockEstablishmentRepo struct {
	establishments map[uuid.UUID]*Establishment
}

func newMockEstablishmentRepo() *mockEstablishmentRepo {
	return &mockEstablishmentRepo{establishments: make(map[uuid.UUID]*Establishment)}
}

func (m *mockEstablishmentRepo) Create(_ context.Context, e *Establishment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	cp := *e
	m.establishments[e.ID] = &cp
	return nil
}

func (m *mockEstablishmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Establishment, error) {
	e, ok := m.establishments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *mockEstablishmentRepo) Update(_ context.Context, e *Establishment) error {
	if _, ok := m.establishments[e.ID]; !ok {
		return ErrNotFound
	}
	cp := *e
	m.establishments[e.ID] = &cp
	return nil
}

func (m *mockEstablishmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.establishments[id]; !ok {
		return ErrNotFound
	}
	delete(m.establishments, id)
	return nil
}

func (m *mockEstablishmentRepo) List(_ context.Context, limit, offset int) ([]*Establishment, int, error) {
	var result []*Establishment
	for _, e := range m.establishments {
		result = append(result, e)
	}
	return result, len(result), nil
}

type mockStaffRepo struct {
	users map[uuid.UUID]*StaffUser
}

func newMockStaffRepo() *mockStaffRepo {
	return &mockStaffRepo{users: make(map[uuid.UUID]*StaffUser)}
}

func (m *mockStaffRepo) Create(_ context.Context, u *StaffUser) error {
	for _, existing := range m.users {
		if existing.EstablishmentID == u.EstablishmentID && existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id, establishmentID uuid.UUID) (*StaffUser, error) {
	u, ok := m.users[id]
	if !ok || u.EstablishmentID != establishmentID {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockStaffRepo) GetByEmail(_ context.Context, email string, establishmentID uuid.UUID) (*StaffUser, error) {
	for _, u := range m.users {
		if u.EstablishmentID == establishmentID && u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockStaffRepo) Update(_ context.Context, u *StaffUser) error {
	existing, ok := m.users[u.ID]
	if !ok || existing.EstablishmentID != u.EstablishmentID {
		return ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockStaffRepo) Delete(_ context.Context, id, establishmentID uuid.UUID) error {
	u, ok := m.users[id]
	if !ok || u.EstablishmentID != establishmentID {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockStaffRepo) Search(_ context.Context, establishmentID uuid.UUID, _ map[string]string, limit, offset int) ([]*StaffUser, int, error) {
	var result []*StaffUser
	for _, u := range m.users {
		if u.EstablishmentID == establishmentID {
			result = append(result, u)
		}
	}
	return result, len(result), nil
}

func newTestService() (*Service, uuid.UUID) {
	return NewService(newMockEstablishmentRepo(), newMockStaffRepo()), uuid.New()
}

func TestCreateEstablishment(t *testing.T) {
	svc, _ := newTestService()
	e := &Establishment{Name: "Centro Norte"}
	if err := svc.CreateEstablishment(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Active {
		t.Error("new establishments should be active")
	}

	empty := &Establishment{}
	if err := svc.CreateEstablishment(context.Background(), empty); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty name, got %v", err)
	}
}

func TestCreateStaffUser_HashesPassword(t *testing.T) {
	svc, estID := newTestService()
	u := &StaffUser{EstablishmentID: estID, Name: "Ana", Email: "ana@example.com", Role: auth.RoleReceptionist}

	if err := svc.CreateStaffUser(context.Background(), u, "s3cret-pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-pass" {
		t.Error("password must be stored as a hash")
	}
	if !strings.HasPrefix(u.PasswordHash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", u.PasswordHash)
	}

	got, err := svc.VerifyPassword(context.Background(), "ana@example.com", "s3cret-pass", estID)
	if err != nil {
		t.Fatalf("password should verify: %v", err)
	}
	if got.ID != u.ID {
		t.Error("verify returned the wrong user")
	}

	if _, err := svc.VerifyPassword(context.Background(), "ana@example.com", "wrong", estID); !errors.Is(err, ErrNotFound) {
		t.Errorf("wrong password should fail, got %v", err)
	}
}

func TestCreateStaffUser_Validation(t *testing.T) {
	svc, estID := newTestService()

	cases := []struct {
		name     string
		user     *StaffUser
		password string
	}{
		{"short password", &StaffUser{EstablishmentID: estID, Name: "A", Email: "a@x.com", Role: auth.RoleAdmin}, "short"},
		{"bad email", &StaffUser{EstablishmentID: estID, Name: "A", Email: "nope", Role: auth.RoleAdmin}, "long-enough"},
		{"unknown role", &StaffUser{EstablishmentID: estID, Name: "A", Email: "a@x.com", Role: "superuser"}, "long-enough"},
		{"missing name", &StaffUser{EstablishmentID: estID, Email: "a@x.com", Role: auth.RoleAdmin}, "long-enough"},
	}
	for _, tc := range cases {
		if err := svc.CreateStaffUser(context.Background(), tc.user, tc.password); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestCreateStaffUser_DuplicateEmail(t *testing.T) {
	svc, estID := newTestService()
	first := &StaffUser{EstablishmentID: estID, Name: "Ana", Email: "ana@example.com", Role: auth.RoleAdmin}
	if err := svc.CreateStaffUser(context.Background(), first, "long-enough"); err != nil {
		t.Fatal(err)
	}

	dup := &StaffUser{EstablishmentID: estID, Name: "Other", Email: "ana@example.com", Role: auth.RoleReadonly}
	if err := svc.CreateStaffUser(context.Background(), dup, "long-enough"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	// Same email in another establishment is fine.
	other := &StaffUser{EstablishmentID: uuid.New(), Name: "Ana", Email: "ana@example.com", Role: auth.RoleAdmin}
	if err := svc.CreateStaffUser(context.Background(), other, "long-enough"); err != nil {
		t.Errorf("email uniqueness is per establishment: %v", err)
	}
}

func TestUpdateStaffUser_KeepsHashWithoutNewPassword(t *testing.T) {
	svc, estID := newTestService()
	u := &StaffUser{EstablishmentID: estID, Name: "Ana", Email: "ana@example.com", Role: auth.RoleAdmin}
	if err := svc.CreateStaffUser(context.Background(), u, "original-pass"); err != nil {
		t.Fatal(err)
	}

	updated := &StaffUser{ID: u.ID, EstablishmentID: estID, Name: "Ana Maria", Email: "ana@example.com", Role: auth.RoleAdmin, Active: true}
	if err := svc.UpdateStaffUser(context.Background(), updated, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.VerifyPassword(context.Background(), "ana@example.com", "original-pass", estID); err != nil {
		t.Errorf("original password should still verify: %v", err)
	}
}
