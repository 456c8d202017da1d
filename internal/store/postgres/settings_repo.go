package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"barberboss/backend/internal/domain"
)

type SettingsRepo struct {
	db *bun.DB
}

func NewSettingsRepo(db *bun.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) GetOrCreate(ctx context.Context, defaults domain.Settings) (domain.Settings, error) {
	s, err := r.get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, err
	}

	m := defaults
	m.ID = domain.SettingsID
	if _, err := r.db.NewInsert().Model(&m).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
		return domain.Settings{}, err
	}
	// Another instance may have won the insert; read back whatever is stored.
	return r.get(ctx)
}

func (r *SettingsRepo) Update(ctx context.Context, s domain.Settings) (domain.Settings, error) {
	m := s
	m.ID = domain.SettingsID
	res, err := r.db.NewUpdate().
		Model(&m).
		Column("business_name", "open_time", "close_time", "working_days", "slot_interval_min", "min_advance_hours", "max_advance_days", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := expectOneRow(res); err != nil {
		return domain.Settings{}, err
	}
	return r.get(ctx)
}

func (r *SettingsRepo) get(ctx context.Context) (domain.Settings, error) {
	var row domain.Settings
	err := r.db.NewSelect().
		Model(&row).
		Where("id = ?", domain.SettingsID).
		Limit(1).
		Scan(ctx)
	return row, err
}
