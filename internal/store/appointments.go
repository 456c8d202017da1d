package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"barberboss/backend/internal/domain"
)

// AppointmentFilter selects appointments of any status intersecting
// [WindowStart, WindowEnd). Empty optional fields match every row.
type AppointmentFilter struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Status      domain.Status
	BarberID    *uuid.UUID
	ClientID    *uuid.UUID
}

type AppointmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListActiveAppointments is the advisory (non-transactional) conflict read.
	ListActiveAppointments(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error)

	// InSchedulingTx runs fn in a serializable transaction holding the shop's
	// scheduling lock.
	InSchedulingTx(ctx context.Context, fn func(ctx context.Context, tx SchedulingTx) error) error
}

type SchedulingTx interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListActiveAppointments(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error)
	ListBlockCandidates(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error)
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
