package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TxRunner runs fn, optionally inside a database transaction. The default
// runner calls fn directly; main wires db.WithTx so the check-then-write
// sections of the service see a consistent snapshot.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	repo          AppointmentRepository
	checker       *ConflictChecker
	patients      PatientDirectory
	professionals ProfessionalDirectory
	runInTx       TxRunner
}

func NewService(repo AppointmentRepository, patients PatientDirectory, professionals ProfessionalDirectory) *Service {
	return &Service{
		repo:          repo,
		checker:       NewConflictChecker(repo),
		patients:      patients,
		professionals: professionals,
		runInTx:       passthroughTx,
	}
}

// WithTxRunner replaces the transaction runner. Returns the service for
// chaining during wiring.
func (s *Service) WithTxRunner(run TxRunner) *Service {
	s.runInTx = run
	return s
}

// CreateAppointment validates the referenced patient and professional, runs
// the conflict check last, and inserts the appointment. The default status
// is pending.
func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrValidation)
	}
	if a.ProfessionalID == uuid.Nil {
		return fmt.Errorf("%w: professional_id is required", ErrValidation)
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled_at is required", ErrValidation)
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	if !ValidStatus(a.Status) {
		return fmt.Errorf("%w: unknown status %s", ErrValidation, a.Status)
	}

	err := s.runInTx(ctx, func(ctx context.Context) error {
		ok, err := s.patients.Exists(ctx, a.PatientID, a.EstablishmentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPatientNotFound
		}

		ok, err = s.professionals.Exists(ctx, a.ProfessionalID, a.EstablishmentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrProfessionalNotFound
		}

		if a.OccupiesSlot() {
			if err := s.checker.CheckConflict(ctx, a.EstablishmentID, a.ProfessionalID, a.ScheduledAt, nil); err != nil {
				return err
			}
		}

		return s.repo.Insert(ctx, a)
	})
	if err != nil {
		return s.namedConflict(ctx, err, a.EstablishmentID, a.ProfessionalID, a.ScheduledAt, nil)
	}
	return nil
}

// namedConflict fills in the colliding appointment id when the database's
// partial unique index rejected a write that the in-transaction check had
// passed. The lookup runs on the caller's context, outside the aborted
// transaction, where the concurrent winner's row is already visible.
func (s *Service) namedConflict(ctx context.Context, err error, establishmentID, professionalID uuid.UUID, at time.Time, excludeID *uuid.UUID) error {
	var conflict *ConflictError
	if !errors.As(err, &conflict) || conflict.ExistingID != uuid.Nil {
		return err
	}
	if cerr := s.checker.CheckConflict(ctx, establishmentID, professionalID, at, excludeID); cerr != nil {
		return cerr
	}
	return err
}

// UpdateAppointment applies a partial update. The conflict check runs on the
// effective professional and time, excluding the appointment's own id so an
// unchanged slot never collides with itself. Status transitions are not
// restricted.
func (s *Service) UpdateAppointment(ctx context.Context, id, establishmentID uuid.UUID, patch *Patch) (*Appointment, error) {
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: unknown status %s", ErrValidation, *patch.Status)
	}
	if patch.ScheduledAt != nil && patch.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled_at must not be zero", ErrValidation)
	}

	var updated *Appointment
	var effProf uuid.UUID
	var effAt time.Time
	err := s.runInTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id, establishmentID)
		if err != nil {
			return err
		}

		if patch.PatientID != nil && *patch.PatientID != a.PatientID {
			ok, err := s.patients.Exists(ctx, *patch.PatientID, establishmentID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrPatientNotFound
			}
			a.PatientID = *patch.PatientID
		}
		if patch.ProfessionalID != nil && *patch.ProfessionalID != a.ProfessionalID {
			ok, err := s.professionals.Exists(ctx, *patch.ProfessionalID, establishmentID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrProfessionalNotFound
			}
			a.ProfessionalID = *patch.ProfessionalID
		}
		if patch.Specialty != nil {
			a.Specialty = patch.Specialty
		}
		if patch.ScheduledAt != nil {
			a.ScheduledAt = *patch.ScheduledAt
		}
		if patch.Status != nil {
			a.Status = *patch.Status
		}
		if patch.Notes != nil {
			a.Notes = patch.Notes
		}
		effProf, effAt = a.ProfessionalID, a.ScheduledAt

		if a.OccupiesSlot() {
			if err := s.checker.CheckConflict(ctx, establishmentID, a.ProfessionalID, a.ScheduledAt, &a.ID); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, s.namedConflict(ctx, err, establishmentID, effProf, effAt, &id)
	}
	return updated, nil
}

// CancelOrDelete removes an appointment. The soft path marks it cancelled
// and is idempotent; the hard path deletes the row but is refused while
// procedures reference it.
func (s *Service) CancelOrDelete(ctx context.Context, id, establishmentID uuid.UUID, hardDelete bool) error {
	return s.runInTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id, establishmentID)
		if err != nil {
			return err
		}

		if hardDelete {
			dependent, err := s.repo.HasDependentProcedures(ctx, a.ID)
			if err != nil {
				return err
			}
			if dependent {
				return ErrHasDependents
			}
			return s.repo.Delete(ctx, a.ID, establishmentID)
		}

		if a.Status == StatusCancelled {
			return nil
		}
		a.Status = StatusCancelled
		return s.repo.Update(ctx, a)
	})
}

func (s *Service) GetAppointment(ctx context.Context, id, establishmentID uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id, establishmentID)
}

func (s *Service) SearchAppointments(ctx context.Context, establishmentID uuid.UUID, params map[string]string, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.Search(ctx, establishmentID, params, limit, offset)
}
