package scheduling

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapPgError_DuplicateID(t *testing.T) {
	err := mapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "appointments_pkey"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("primary key violation should map to ErrDuplicateID, got %v", err)
	}
}

func TestMapPgError_SlotIndexViolation(t *testing.T) {
	err := mapPgError(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "appointments_professional_slot_active",
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("slot index violation should map to *ConflictError, got %v", err)
	}
}

func TestMapPgError_PassesThroughOtherErrors(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "appointments_patient_id_fkey"}
	if got := mapPgError(fk); got != error(fk) {
		t.Errorf("non-unique violations must pass through, got %v", got)
	}

	plain := errors.New("connection reset")
	if got := mapPgError(plain); got != plain {
		t.Errorf("plain errors must pass through, got %v", got)
	}
}
