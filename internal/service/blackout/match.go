package blackout

import (
	"fmt"
	"time"

	"barberboss/backend/internal/domain"
)

// Covers reports whether b blocks any part of [start, end). Recurring blocks
// are compared by time of day in loc, on the weekday of start.
func Covers(b domain.TimeBlock, start, end time.Time, loc *time.Location) bool {
	if !b.Active {
		return false
	}
	if !b.IsRecurring {
		return domain.IntervalsOverlap(start, end, b.StartsAt, b.EndsAt)
	}
	if !b.OnWeekday(domain.Weekday(start, loc)) {
		return false
	}
	return domain.MinutesOverlap(
		domain.MinuteOfDay(start, loc), domain.MinuteOfDay(end, loc),
		domain.MinuteOfDay(b.StartsAt, loc), domain.MinuteOfDay(b.EndsAt, loc),
	)
}

// FirstMatch returns the earliest-created block covering [start, end), or nil.
func FirstMatch(blocks []domain.TimeBlock, start, end time.Time, loc *time.Location) *domain.TimeBlock {
	var hit *domain.TimeBlock
	for i := range blocks {
		if !Covers(blocks[i], start, end, loc) {
			continue
		}
		if hit == nil || blocks[i].CreatedAt.Before(hit.CreatedAt) {
			hit = &blocks[i]
		}
	}
	if hit == nil {
		return nil
	}
	b := *hit
	return &b
}

func TypeLabel(t domain.BlockType) string {
	switch t {
	case domain.BlockLunch:
		return "lunch break"
	case domain.BlockBreak:
		return "break"
	case domain.BlockDayOff:
		return "day off"
	case domain.BlockVacation:
		return "vacation"
	case domain.BlockCustom:
		return "custom block"
	default:
		return "block"
	}
}

// Describe renders the user-facing reason a slot is unavailable.
func Describe(b domain.TimeBlock, loc *time.Location) string {
	reason := ""
	if b.Reason != "" {
		reason = " (" + b.Reason + ")"
	}
	return fmt.Sprintf("this time cannot be booked. There is a %s%s from %s to %s",
		TypeLabel(b.Type), reason, b.StartsAt.In(loc).Format("15:04"), b.EndsAt.In(loc).Format("15:04"))
}
