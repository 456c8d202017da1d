package store

import (
	"context"

	"github.com/google/uuid"

	"barberboss/backend/internal/domain"
)

type ServiceCatalog interface {
	FindService(ctx context.Context, id uuid.UUID) (domain.Service, error)
}

type ClientDirectory interface {
	ClientExists(ctx context.Context, id uuid.UUID) (bool, error)
	// ClientName returns ErrNotFound for an unknown client.
	ClientName(ctx context.Context, id uuid.UUID) (string, error)
}
