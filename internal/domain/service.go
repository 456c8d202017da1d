package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service is a catalog entry. The scheduling engine only reads it.
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	DurationMin int       `bun:"duration_min,notnull"`
	Active      bool      `bun:"active,notnull"`
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}
