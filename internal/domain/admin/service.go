package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	establishments EstablishmentRepository
	staff          StaffUserRepository
}

func NewService(establishments EstablishmentRepository, staff StaffUserRepository) *Service {
	return &Service{establishments: establishments, staff: staff}
}

// -- Establishments --

func (s *Service) CreateEstablishment(ctx context.Context, e *Establishment) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	e.Active = true
	return s.establishments.Create(ctx, e)
}

func (s *Service) GetEstablishment(ctx context.Context, id uuid.UUID) (*Establishment, error) {
	return s.establishments.GetByID(ctx, id)
}

func (s *Service) UpdateEstablishment(ctx context.Context, e *Establishment) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.establishments.Update(ctx, e)
}

func (s *Service) DeleteEstablishment(ctx context.Context, id uuid.UUID) error {
	return s.establishments.Delete(ctx, id)
}

func (s *Service) ListEstablishments(ctx context.Context, limit, offset int) ([]*Establishment, int, error) {
	return s.establishments.List(ctx, limit, offset)
}

// -- Staff users --

// CreateStaffUser hashes the given plain-text password with bcrypt before
// storing. The plain text is never persisted.
func (s *Service) CreateStaffUser(ctx context.Context, u *StaffUser, password string) error {
	if err := validateStaffUser(u); err != nil {
		return err
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.Active = true

	return s.staff.Create(ctx, u)
}

func (s *Service) GetStaffUser(ctx context.Context, id, establishmentID uuid.UUID) (*StaffUser, error) {
	return s.staff.GetByID(ctx, id, establishmentID)
}

// UpdateStaffUser updates profile fields. When password is non-empty the
// stored hash is replaced.
func (s *Service) UpdateStaffUser(ctx context.Context, u *StaffUser, password string) error {
	if err := validateStaffUser(u); err != nil {
		return err
	}

	existing, err := s.staff.GetByID(ctx, u.ID, u.EstablishmentID)
	if err != nil {
		return err
	}
	u.PasswordHash = existing.PasswordHash

	if password != "" {
		if len(password) < 8 {
			return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	return s.staff.Update(ctx, u)
}

func (s *Service) DeleteStaffUser(ctx context.Context, id, establishmentID uuid.UUID) error {
	return s.staff.Delete(ctx, id, establishmentID)
}

func (s *Service) SearchStaffUsers(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*StaffUser, int, error) {
	return s.staff.Search(ctx, establishmentID, params, limit, offset)
}

// VerifyPassword checks a candidate password against the stored hash.
func (s *Service) VerifyPassword(ctx context.Context, email, password string, establishmentID uuid.UUID) (*StaffUser, error) {
	u, err := s.staff.GetByEmail(ctx, email, establishmentID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func validateStaffUser(u *StaffUser) error {
	if u.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("%w: unknown role %s", ErrValidation, u.Role)
	}
	return nil
}
