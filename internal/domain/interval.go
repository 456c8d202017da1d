package domain

import "time"

// IntervalsOverlap applies the three-way test used for every scheduling check:
// the candidate [aStart, aEnd) starts inside b, ends inside b, or contains b.
// Touching intervals (aEnd == bStart) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	startsInside := !bStart.After(aStart) && aStart.Before(bEnd)
	endsInside := bStart.Before(aEnd) && !aEnd.After(bEnd)
	contains := !aStart.After(bStart) && !aEnd.Before(bEnd)
	return startsInside || endsInside || contains
}

// MinutesOverlap is IntervalsOverlap over minutes since midnight.
func MinutesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	startsInside := bStart <= aStart && aStart < bEnd
	endsInside := bStart < aEnd && aEnd <= bEnd
	contains := aStart <= bStart && aEnd >= bEnd
	return startsInside || endsInside || contains
}

// MinuteOfDay returns hour*60+minute of t on the wall clock of loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// Weekday returns 0 (Sunday) .. 6 (Saturday) for t on the wall clock of loc.
func Weekday(t time.Time, loc *time.Location) int {
	return int(t.In(loc).Weekday())
}
