package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"barberboss/backend/internal/domain"
)

type TimeBlockRepository interface {
	Create(ctx context.Context, block domain.TimeBlock) (domain.TimeBlock, error)
	Get(ctx context.Context, id uuid.UUID) (domain.TimeBlock, error)
	Update(ctx context.Context, block domain.TimeBlock) (domain.TimeBlock, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]domain.TimeBlock, error)

	// ListInRange returns active non-recurring blocks overlapping [start, end)
	// and every active recurring block, ordered by start time.
	ListInRange(ctx context.Context, start, end time.Time) ([]domain.TimeBlock, error)

	// ListBlockCandidates returns active blocks that either overlap [start, end)
	// (non-recurring) or recur on weekday, ordered by creation time.
	ListBlockCandidates(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error)
}
