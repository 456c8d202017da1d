package conflict

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"barberboss/backend/internal/domain"
)

// Querier is satisfied by the repository (advisory reads) and by the
// scheduling transaction (authoritative reads).
type Querier interface {
	ListActiveAppointments(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error)
}

// FindConflicts returns the non-terminal appointments overlapping [start, end), oldest first.
func FindConflicts(ctx context.Context, q Querier, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error) {
	rows, err := q.ListActiveAppointments(ctx, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return Overlapping(rows, start, end, excludeID), nil
}

// Overlapping filters appts with the same rules as FindConflicts.
func Overlapping(appts []domain.Appointment, start, end time.Time, excludeID *uuid.UUID) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range appts {
		if a.Status.IsTerminal() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if !domain.IntervalsOverlap(start, end, a.StartsAt, a.EndsAt) {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b domain.Appointment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// Any reports whether appts holds a conflict for [start, end).
func Any(appts []domain.Appointment, start, end time.Time, excludeID *uuid.UUID) bool {
	for _, a := range appts {
		if a.Status.IsTerminal() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if domain.IntervalsOverlap(start, end, a.StartsAt, a.EndsAt) {
			return true
		}
	}
	return false
}
