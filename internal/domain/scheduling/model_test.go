package scheduling

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
		if !ValidStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "scheduled", "Cancelado", "PENDING"} {
		if ValidStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestStatusOccupiesSlot(t *testing.T) {
	occupied := map[string]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCompleted: true,
		StatusCancelled: false,
		StatusNoShow:    false,
	}
	for status, want := range occupied {
		if got := StatusOccupiesSlot(status); got != want {
			t.Errorf("StatusOccupiesSlot(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestConflictError_NamesExisting(t *testing.T) {
	id := uuid.New()
	err := &ConflictError{ExistingID: id}
	if !strings.Contains(err.Error(), id.String()) {
		t.Errorf("error message should name the colliding appointment: %s", err.Error())
	}
}

func TestConflictError_UnnamedOmitsID(t *testing.T) {
	err := &ConflictError{}
	if strings.Contains(err.Error(), "00000000-0000") {
		t.Errorf("unnamed conflict must not print the zero uuid: %s", err.Error())
	}
}
