package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/store"
)

type TimeBlockRepo struct {
	db *bun.DB
}

func NewTimeBlockRepo(db *bun.DB) *TimeBlockRepo {
	return &TimeBlockRepo{db: db}
}

func (r *TimeBlockRepo) Create(ctx context.Context, block domain.TimeBlock) (domain.TimeBlock, error) {
	m := block
	m.Active = true
	if m.RecurringDays == nil {
		m.RecurringDays = []int{}
	}
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.TimeBlock{}, err
	}
	return m, nil
}

// Get returns the block regardless of its active flag.
func (r *TimeBlockRepo) Get(ctx context.Context, id uuid.UUID) (domain.TimeBlock, error) {
	var row domain.TimeBlock
	err := r.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TimeBlock{}, store.ErrNotFound
		}
		return domain.TimeBlock{}, err
	}
	return row, nil
}

func (r *TimeBlockRepo) Update(ctx context.Context, block domain.TimeBlock) (domain.TimeBlock, error) {
	m := block
	if m.RecurringDays == nil {
		m.RecurringDays = []int{}
	}
	res, err := r.db.NewUpdate().
		Model(&m).
		Column("type", "reason", "starts_at", "ends_at", "is_recurring", "recurring_days", "updated_at").
		WherePK().
		Where("active = TRUE").
		Exec(ctx)
	if err != nil {
		return domain.TimeBlock{}, err
	}
	if err := expectOneRow(res); err != nil {
		return domain.TimeBlock{}, err
	}
	return m, nil
}

// Deactivate soft-deletes the block. Deactivating twice reports ErrNotFound.
func (r *TimeBlockRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*domain.TimeBlock)(nil)).
		Set("active = FALSE").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("active = TRUE").
		Exec(ctx)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *TimeBlockRepo) ListActive(ctx context.Context) ([]domain.TimeBlock, error) {
	var rows []domain.TimeBlock
	err := r.db.NewSelect().
		Model(&rows).
		Where("active = TRUE").
		OrderExpr("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TimeBlockRepo) ListInRange(ctx context.Context, start, end time.Time) ([]domain.TimeBlock, error) {
	var rows []domain.TimeBlock
	err := r.db.NewSelect().
		Model(&rows).
		Where("active = TRUE").
		Where("(is_recurring = TRUE OR "+overlapSQL+")", overlapArgs(start, end)...).
		OrderExpr("starts_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TimeBlockRepo) ListBlockCandidates(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error) {
	return listBlockCandidates(ctx, r.db, start, end, weekday)
}

func listBlockCandidates(ctx context.Context, db bun.IDB, start, end time.Time, weekday int) ([]domain.TimeBlock, error) {
	var rows []domain.TimeBlock
	args := append(overlapArgs(start, end), weekday)
	err := db.NewSelect().
		Model(&rows).
		Where("active = TRUE").
		Where("((is_recurring = FALSE AND "+overlapSQL+") OR (is_recurring = TRUE AND ? = ANY(recurring_days)))", args...).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func expectOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
