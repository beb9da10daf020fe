package identity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. DocumentID is unique per
// establishment.
type Patient struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	EstablishmentID uuid.UUID  `db:"establishment_id" json:"establishment_id"`
	DocumentID      string     `db:"document_id" json:"document_id"`
	LastName        string     `db:"last_name" json:"last_name"`
	FirstName       string     `db:"first_name" json:"first_name"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	Email           *string    `db:"email" json:"email,omitempty"`
	BirthDate       *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Address         *string    `db:"address" json:"address,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Professional maps to the professionals table. Availability holds the
// weekly schedule as free-form JSON; the server stores it opaquely.
type Professional struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	EstablishmentID uuid.UUID       `db:"establishment_id" json:"establishment_id"`
	LastName        string          `db:"last_name" json:"last_name"`
	FirstName       string          `db:"first_name" json:"first_name"`
	Specialty       string          `db:"specialty" json:"specialty"`
	Phone           *string         `db:"phone" json:"phone,omitempty"`
	Email           *string         `db:"email" json:"email,omitempty"`
	Availability    json.RawMessage `db:"availability" json:"availability,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateDocument = errors.New("document id already registered in this establishment")
	ErrInUse             = errors.New("record is referenced by appointments")
)
