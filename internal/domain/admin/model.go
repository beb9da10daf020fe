package admin

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinica/clinica/internal/platform/auth"
)

// Establishment maps to the establishments table. Every other record in the
// system is scoped to exactly one establishment.
type Establishment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StaffUser maps to the staff_users table. Email is unique per
// establishment. PasswordHash is never serialized.
type StaffUser struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EstablishmentID uuid.UUID `db:"establishment_id" json:"establishment_id"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	Role            string    `db:"role" json:"role"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

var validRoles = map[string]bool{
	auth.RoleAdmin:        true,
	auth.RoleReceptionist: true,
	auth.RoleProfessional: true,
	auth.RoleReadonly:     true,
}

// ValidRole reports whether r is a known staff role.
func ValidRole(r string) bool { return validRoles[r] }

var (
	ErrValidation     = errors.New("invalid input")
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered in this establishment")
	ErrInUse          = errors.New("establishment still has records")
)
