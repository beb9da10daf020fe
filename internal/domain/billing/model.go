package billing

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Tariff maps to the tariffs table. Code is unique per establishment.
type Tariff struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EstablishmentID uuid.UUID `db:"establishment_id" json:"establishment_id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	Category        *string   `db:"category" json:"category,omitempty"`
	Value           float64   `db:"value" json:"value"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Procedure maps to the procedures table. Each procedure is a billable
// action recorded against an appointment; while any exist, the appointment
// cannot be hard-deleted.
type Procedure struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EstablishmentID uuid.UUID `db:"establishment_id" json:"establishment_id"`
	AppointmentID   uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Code            string    `db:"code" json:"code"`
	Name            string    `db:"name" json:"name"`
	Category        *string   `db:"category" json:"category,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

var (
	ErrValidation          = errors.New("invalid input")
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateCode       = errors.New("tariff code already exists in this establishment")
	ErrAppointmentNotFound = errors.New("appointment not found")
)
