package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BlockType string

const (
	BlockLunch    BlockType = "LUNCH"
	BlockBreak    BlockType = "BREAK"
	BlockDayOff   BlockType = "DAY_OFF"
	BlockVacation BlockType = "VACATION"
	BlockCustom   BlockType = "CUSTOM"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockLunch, BlockBreak, BlockDayOff, BlockVacation, BlockCustom:
		return true
	default:
		return false
	}
}

// TimeBlock is a blackout. Recurring blocks only use the time-of-day part of
// StartsAt/EndsAt and apply on every weekday listed in RecurringDays.
type TimeBlock struct {
	bun.BaseModel `bun:"table:time_blocks"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	Type          BlockType `bun:"type,notnull"`
	Reason        string    `bun:"reason"`
	StartsAt      time.Time `bun:"starts_at,notnull"`
	EndsAt        time.Time `bun:"ends_at,notnull"`
	IsRecurring   bool      `bun:"is_recurring,notnull"`
	RecurringDays []int     `bun:"recurring_days,array,notnull"`
	Active        bool      `bun:"active,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func (b TimeBlock) OnWeekday(weekday int) bool {
	for _, d := range b.RecurringDays {
		if d == weekday {
			return true
		}
	}
	return false
}

func (b *TimeBlock) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}
