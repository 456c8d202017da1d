package calendar

import (
	"errors"
	"fmt"
	"time"

	"barberboss/backend/internal/domain"
)

// Edge selects which side of an interval a boundary check applies to.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

// ValidateBoundary checks a single appointment boundary against working days,
// opening hours and the advance booking window. A start must fall in
// [open, close); an end must fall in (open, close].
func ValidateBoundary(s domain.Settings, t time.Time, loc *time.Location, now time.Time, edge Edge) error {
	local := t.In(loc)
	weekday := int(local.Weekday())

	if !s.IsWorkingDay(weekday) {
		return domain.Invalid(domain.RuleWorkingDay, fmt.Sprintf(
			"we are closed on %s. The selected date (%s) is not available. Working days: %s.",
			WeekdayName(weekday), local.Format("Monday, January 2, 2006"), workingDayNames(s.WorkingDays),
		))
	}

	openAt, closeAt := OpeningWindow(s, local, loc)
	var inside bool
	switch edge {
	case EdgeEnd:
		inside = local.After(openAt) && !local.After(closeAt)
	default:
		inside = !local.Before(openAt) && local.Before(closeAt)
	}
	if !inside {
		return domain.Invalid(domain.RuleBusinessHours, fmt.Sprintf(
			"the selected time (%s on %s) is outside business hours. We are open from %s to %s.",
			local.Format("15:04"), local.Format("02/01/2006"), s.OpenTime, s.CloseTime,
		))
	}

	lead := t.Sub(now)
	if lead < s.MinAdvance() {
		return domain.Invalid(domain.RuleMinAdvance, fmt.Sprintf(
			"appointments must be booked at least %d %s in advance. Please choose a later time.",
			s.MinAdvanceHours, plural(s.MinAdvanceHours, "hour", "hours"),
		))
	}
	if lead > s.MaxAdvance() {
		return domain.Invalid(domain.RuleMaxAdvance, fmt.Sprintf(
			"appointments cannot be booked more than %d %s in advance. Please choose an earlier date.",
			s.MaxAdvanceDays, plural(s.MaxAdvanceDays, "day", "days"),
		))
	}
	return nil
}

// ValidateInterval runs ValidateBoundary on both ends and attaches the
// interval to the returned error.
func ValidateInterval(s domain.Settings, start, end time.Time, loc *time.Location, now time.Time) error {
	for _, b := range []struct {
		t    time.Time
		edge Edge
	}{{start, EdgeStart}, {end, EdgeEnd}} {
		if err := ValidateBoundary(s, b.t, loc, now, b.edge); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				ve.Start, ve.End = start, end
			}
			return err
		}
	}
	return nil
}

// OpeningWindow returns the open and close instants on day's calendar date in loc.
func OpeningWindow(s domain.Settings, day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(loc).Date()
	open, closeMin := s.OpenMinutes(), s.CloseMinutes()
	return time.Date(y, m, d, open/60, open%60, 0, 0, loc),
		time.Date(y, m, d, closeMin/60, closeMin%60, 0, 0, loc)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
