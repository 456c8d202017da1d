package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/store"
)

// CatalogRepo reads services and clients. Both tables are owned elsewhere.
type CatalogRepo struct {
	db *bun.DB
}

func NewCatalogRepo(db *bun.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) FindService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var row domain.Service
	err := r.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Service{}, store.ErrNotFound
		}
		return domain.Service{}, err
	}
	return row, nil
}

func (r *CatalogRepo) ClientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.db.NewSelect().
		Table("users").
		Where("id = ?", id).
		Exists(ctx)
}

func (r *CatalogRepo) ClientName(ctx context.Context, id uuid.UUID) (string, error) {
	var name string
	err := r.db.NewSelect().
		Table("users").
		Column("name").
		Where("id = ?", id).
		Limit(1).
		Scan(ctx, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrNotFound
		}
		return "", err
	}
	return name, nil
}
