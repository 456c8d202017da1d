package domain

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// SettingsID is the primary key of the only settings row.
const SettingsID int16 = 1

type Settings struct {
	bun.BaseModel `bun:"table:settings"`

	ID              int16     `bun:"id,pk" json:"-"`
	BusinessName    string    `bun:"business_name,notnull" json:"business_name"`
	OpenTime        string    `bun:"open_time,notnull" json:"open_time"`
	CloseTime       string    `bun:"close_time,notnull" json:"close_time"`
	WorkingDays     []int     `bun:"working_days,array,notnull" json:"working_days"`
	SlotIntervalMin int       `bun:"slot_interval_min,notnull" json:"slot_interval_min"`
	MinAdvanceHours int       `bun:"min_advance_hours,notnull" json:"min_advance_hours"`
	MaxAdvanceDays  int       `bun:"max_advance_days,notnull" json:"max_advance_days"`
	CreatedAt       time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (s Settings) IsWorkingDay(weekday int) bool {
	for _, d := range s.WorkingDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// OpenMinutes returns the opening time as minutes since midnight.
func (s Settings) OpenMinutes() int {
	m, _ := ParseClock(s.OpenTime)
	return m
}

func (s Settings) CloseMinutes() int {
	m, _ := ParseClock(s.CloseTime)
	return m
}

func (s Settings) MinAdvance() time.Duration {
	return time.Duration(s.MinAdvanceHours) * time.Hour
}

func (s Settings) MaxAdvance() time.Duration {
	return time.Duration(s.MaxAdvanceDays) * 24 * time.Hour
}

func (s *Settings) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == 0 {
			s.ID = SettingsID
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock parses "HH:mm" into minutes since midnight.
func ParseClock(v string) (int, error) {
	m := clockPattern.FindStringSubmatch(v)
	if m == nil {
		return 0, fmt.Errorf("%q is not a valid HH:mm time", v)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min, nil
}

// FormatClock renders minutes since midnight as "HH:mm".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
