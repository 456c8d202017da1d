package blackout

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/store"
)

type Registry struct {
	repo   store.TimeBlockRepository
	loc    *time.Location
	logger *slog.Logger
}

func New(repo store.TimeBlockRepository, loc *time.Location, logger *slog.Logger) *Registry {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{repo: repo, loc: loc, logger: logger.With("component", "blackout")}
}

func (r *Registry) FindBlocking(ctx context.Context, start, end time.Time) (*domain.TimeBlock, error) {
	blocks, err := r.repo.ListBlockCandidates(ctx, start, end, domain.Weekday(start, r.loc))
	if err != nil {
		return nil, err
	}
	return FirstMatch(blocks, start, end, r.loc), nil
}

func (r *Registry) IsBlocked(ctx context.Context, start, end time.Time) (bool, error) {
	b, err := r.FindBlocking(ctx, start, end)
	if err != nil {
		return false, err
	}
	return b != nil, nil
}

type CreateInput struct {
	Type          domain.BlockType
	Reason        string
	StartsAt      time.Time
	EndsAt        time.Time
	IsRecurring   bool
	RecurringDays []int
}

func (r *Registry) Create(ctx context.Context, in CreateInput) (domain.TimeBlock, error) {
	b := domain.TimeBlock{
		Type:          in.Type,
		Reason:        in.Reason,
		StartsAt:      in.StartsAt.UTC(),
		EndsAt:        in.EndsAt.UTC(),
		IsRecurring:   in.IsRecurring,
		RecurringDays: in.RecurringDays,
		Active:        true,
	}
	if b.Type == "" {
		b.Type = domain.BlockCustom
	}
	b, err := normalize(b)
	if err != nil {
		return domain.TimeBlock{}, err
	}

	created, err := r.repo.Create(ctx, b)
	if err != nil {
		return domain.TimeBlock{}, err
	}
	r.logger.Info("time block created", "block_id", created.ID, "type", created.Type, "recurring", created.IsRecurring)
	return created, nil
}

// UpdateInput is a partial update; nil fields keep their current value.
type UpdateInput struct {
	Type          *domain.BlockType
	Reason        *string
	StartsAt      *time.Time
	EndsAt        *time.Time
	IsRecurring   *bool
	RecurringDays []int
}

func (r *Registry) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (domain.TimeBlock, error) {
	b, err := r.Get(ctx, id)
	if err != nil {
		return domain.TimeBlock{}, err
	}

	if in.Type != nil {
		b.Type = *in.Type
	}
	if in.Reason != nil {
		b.Reason = *in.Reason
	}
	if in.StartsAt != nil {
		b.StartsAt = in.StartsAt.UTC()
	}
	if in.EndsAt != nil {
		b.EndsAt = in.EndsAt.UTC()
	}
	if in.IsRecurring != nil {
		b.IsRecurring = *in.IsRecurring
	}
	if in.RecurringDays != nil {
		b.RecurringDays = in.RecurringDays
	}

	b, err = normalize(b)
	if err != nil {
		return domain.TimeBlock{}, err
	}

	updated, err := r.repo.Update(ctx, b)
	if err != nil {
		return domain.TimeBlock{}, notFound(id, err)
	}
	return updated, nil
}

// Get returns an active block. Deactivated blocks are reported as not found.
func (r *Registry) Get(ctx context.Context, id uuid.UUID) (domain.TimeBlock, error) {
	b, err := r.repo.Get(ctx, id)
	if err != nil {
		return domain.TimeBlock{}, notFound(id, err)
	}
	if !b.Active {
		return domain.TimeBlock{}, notFound(id, store.ErrNotFound)
	}
	return b, nil
}

func (r *Registry) List(ctx context.Context) ([]domain.TimeBlock, error) {
	return r.repo.ListActive(ctx)
}

// ListInRange returns the active blocks that apply somewhere in [start, end).
// A recurring block is included when one of its weekdays falls in the range.
func (r *Registry) ListInRange(ctx context.Context, start, end time.Time) ([]domain.TimeBlock, error) {
	if !start.Before(end) {
		return nil, domain.InvalidInterval(domain.RuleInterval, "range end must be after range start", start, end)
	}
	blocks, err := r.repo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	days := weekdaysIn(start, end, r.loc)
	out := make([]domain.TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.IsRecurring && !slices.ContainsFunc(b.RecurringDays, func(d int) bool { return d >= 0 && d < 7 && days[d] }) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// weekdaysIn marks the weekdays (0 = Sunday) of the local days touched by
// [start, end).
func weekdaysIn(start, end time.Time, loc *time.Location) [7]bool {
	var days [7]bool
	s := start.In(loc)
	day := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc)
	for i := 0; i < 7 && day.Before(end); i++ {
		days[int(day.Weekday())] = true
		day = day.AddDate(0, 0, 1)
	}
	return days
}

// Delete deactivates the block; the row is kept.
func (r *Registry) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Deactivate(ctx, id); err != nil {
		return notFound(id, err)
	}
	r.logger.Info("time block deactivated", "block_id", id)
	return nil
}

func notFound(id uuid.UUID, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &domain.NotFoundError{Entity: "time block", ID: id.String()}
	}
	return err
}

func normalize(b domain.TimeBlock) (domain.TimeBlock, error) {
	if !b.Type.Valid() {
		return domain.TimeBlock{}, blockError("type must be one of LUNCH, BREAK, DAY_OFF, VACATION, CUSTOM")
	}

	b.Reason = strings.TrimSpace(b.Reason)
	if n := utf8.RuneCountInString(b.Reason); b.Reason != "" && (n < 2 || n > 200) {
		return domain.TimeBlock{}, blockError("reason must be between 2 and 200 characters")
	}

	if !b.StartsAt.Before(b.EndsAt) {
		return domain.TimeBlock{}, domain.InvalidInterval(domain.RuleTimeBlock, "the start must be before the end", b.StartsAt, b.EndsAt)
	}

	if !b.IsRecurring {
		b.RecurringDays = []int{}
		return b, nil
	}
	if len(b.RecurringDays) == 0 {
		return domain.TimeBlock{}, blockError("recurring_days is required when is_recurring is true")
	}
	days := slices.Clone(b.RecurringDays)
	for _, d := range days {
		if d < 0 || d > 6 {
			return domain.TimeBlock{}, blockError("recurring_days must only contain values from 0 (Sunday) to 6 (Saturday)")
		}
	}
	slices.Sort(days)
	b.RecurringDays = slices.Compact(days)
	return b, nil
}

func blockError(msg string) error {
	return domain.Invalid(domain.RuleTimeBlock, msg)
}
