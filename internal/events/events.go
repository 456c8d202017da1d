package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"barberboss/backend/internal/domain"
)

const (
	TypeAppointmentCreated = "appointment.created"
	TypeAppointmentUpdated = "appointment.updated"
	TypeAppointmentDeleted = "appointment.deleted"
)

// Publisher delivers lifecycle events after the change is committed.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type Event struct {
	ID          uuid.UUID          `json:"event_id"`
	Type        string             `json:"event_type"`
	OccurredAt  time.Time          `json:"occurred_at"`
	Appointment AppointmentPayload `json:"appointment"`
}

type AppointmentPayload struct {
	ID         uuid.UUID  `json:"id"`
	ClientID   *uuid.UUID `json:"client_id,omitempty"`
	ClientName *string    `json:"client_name,omitempty"`
	ServiceID  uuid.UUID  `json:"service_id"`
	BarberID   *uuid.UUID `json:"barber_id,omitempty"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     time.Time  `json:"ends_at"`
	Status     string     `json:"status"`
}

func AppointmentEvent(eventType string, a domain.Appointment, at time.Time) Event {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Event{
		ID:         id,
		Type:       eventType,
		OccurredAt: at.UTC(),
		Appointment: AppointmentPayload{
			ID:         a.ID,
			ClientID:   a.ClientID,
			ClientName: a.ClientName,
			ServiceID:  a.ServiceID,
			BarberID:   a.BarberID,
			StartsAt:   a.StartsAt.UTC(),
			EndsAt:     a.EndsAt.UTC(),
			Status:     string(a.Status),
		},
	}
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, ev Event) error { return nil }

func (Nop) Close() error { return nil }
