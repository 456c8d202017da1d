package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
	StatusCompleted Status = "COMPLETED"
	StatusNoShow    Status = "NO_SHOW"
)

var allStatuses = []Status{StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted, StatusNoShow}

// TerminalStatuses lists the statuses that no longer occupy the calendar.
func TerminalStatuses() []Status {
	return []Status{StatusCanceled, StatusCompleted, StatusNoShow}
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an appointment in this status is ignored by conflict detection.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCanceled, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		names := make([]string, 0, len(allStatuses))
		for _, v := range allStatuses {
			names = append(names, string(v))
		}
		return "", Invalid(RuleStatus, fmt.Sprintf("invalid status %q. Allowed values: %s", raw, strings.Join(names, ", ")))
	}
	return s, nil
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID         uuid.UUID  `bun:"id,pk,type:uuid"`
	ClientID   *uuid.UUID `bun:"client_id,type:uuid"`
	ClientName *string    `bun:"client_name"`
	ServiceID  uuid.UUID  `bun:"service_id,notnull,type:uuid"`
	BarberID   *uuid.UUID `bun:"barber_id,type:uuid"`
	StartsAt   time.Time  `bun:"starts_at,notnull"`
	EndsAt     time.Time  `bun:"ends_at,notnull"`
	Status     Status     `bun:"status,notnull"`
	CreatedAt  time.Time  `bun:"created_at,notnull"`
	UpdatedAt  time.Time  `bun:"updated_at,notnull"`
}

// Subject rebuilds the tagged union from the two nullable columns.
func (a Appointment) Subject() Subject {
	if a.ClientID != nil {
		return Registered(*a.ClientID)
	}
	if a.ClientName != nil {
		return Manual(*a.ClientName)
	}
	return Subject{}
}

// SetSubject writes s into the columns, clearing the other side.
func (a *Appointment) SetSubject(s Subject) {
	a.ClientID = nil
	a.ClientName = nil
	if id, ok := s.ClientID(); ok {
		a.ClientID = &id
	}
	if name, ok := s.ClientName(); ok {
		a.ClientName = &name
	}
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
