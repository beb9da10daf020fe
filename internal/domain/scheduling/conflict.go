package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ConflictChecker decides whether a professional is free at an instant. Two
// appointments collide only when their timestamps are exactly equal; there
// is no duration concept.
type ConflictChecker struct {
	repo AppointmentRepository
}

func NewConflictChecker(repo AppointmentRepository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// CheckConflict returns a *ConflictError naming the colliding appointment
// when the professional already has an appointment at the given time whose
// status still occupies the slot. excludeID skips the appointment being
// updated so it never collides with itself.
func (c *ConflictChecker) CheckConflict(ctx context.Context, establishmentID, professionalID uuid.UUID, at time.Time, excludeID *uuid.UUID) error {
	existing, err := c.repo.ListByProfessionalAndTime(ctx, establishmentID, professionalID, at)
	if err != nil {
		return err
	}
	for _, a := range existing {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if !a.OccupiesSlot() {
			continue
		}
		return &ConflictError{ExistingID: a.ID}
	}
	return nil
}
