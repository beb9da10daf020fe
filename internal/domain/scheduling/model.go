package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Only cancelled and no_show free the professional's
// slot; every other status keeps it occupied.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCancelled: true,
	StatusCompleted: true,
	StatusNoShow:    true,
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s string) bool { return validStatuses[s] }

// StatusOccupiesSlot reports whether an appointment in status s holds the
// professional's time slot.
func StatusOccupiesSlot(s string) bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Appointment maps to the appointments table.
type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	EstablishmentID uuid.UUID `db:"establishment_id" json:"establishment_id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	ProfessionalID  uuid.UUID `db:"professional_id" json:"professional_id"`
	Specialty       *string   `db:"specialty" json:"specialty,omitempty"`
	ScheduledAt     time.Time `db:"scheduled_at" json:"scheduled_at"`
	Status          string    `db:"status" json:"status"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// OccupiesSlot reports whether the appointment holds its professional's slot.
func (a *Appointment) OccupiesSlot() bool { return StatusOccupiesSlot(a.Status) }

// Patch carries the fields of a partial appointment update. Nil fields keep
// the stored value.
type Patch struct {
	PatientID      *uuid.UUID `json:"patient_id,omitempty"`
	ProfessionalID *uuid.UUID `json:"professional_id,omitempty"`
	Specialty      *string    `json:"specialty,omitempty"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	Status         *string    `json:"status,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

var (
	// ErrValidation wraps input validation failures so handlers can map
	// them to 400 without enumerating messages.
	ErrValidation           = errors.New("invalid appointment")
	ErrNotFound             = errors.New("appointment not found")
	ErrDuplicateID          = errors.New("appointment id already exists")
	ErrHasDependents        = errors.New("appointment has recorded procedures")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrProfessionalNotFound = errors.New("professional not found")
)

// ConflictError reports that the professional already holds an active
// appointment at the requested time.
type ConflictError struct {
	ExistingID uuid.UUID
}

func (e *ConflictError) Error() string {
	if e.ExistingID == uuid.Nil {
		return "professional already has an active appointment at that time"
	}
	return fmt.Sprintf("professional already has an active appointment at that time (appointment %s)", e.ExistingID)
}
