package store

import (
	"context"

	"barberboss/backend/internal/domain"
)

type SettingsRepository interface {
	// GetOrCreate returns the settings row, inserting defaults when none exists.
	GetOrCreate(ctx context.Context, defaults domain.Settings) (domain.Settings, error)
	Update(ctx context.Context, s domain.Settings) (domain.Settings, error)
}
