package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/store"
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayName returns the English name for 0 (Sunday) .. 6 (Saturday).
func WeekdayName(n int) string {
	if n < 0 || n >= len(weekdayNames) {
		return "invalid day"
	}
	return weekdayNames[n]
}

func workingDayNames(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, WeekdayName(d))
	}
	return strings.Join(names, ", ")
}

// DefaultSettings is what a fresh installation starts with.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		ID:              domain.SettingsID,
		BusinessName:    "Barber Boss",
		OpenTime:        "08:00",
		CloseTime:       "18:00",
		WorkingDays:     []int{1, 2, 3, 4, 5, 6},
		SlotIntervalMin: 15,
		MinAdvanceHours: 2,
		MaxAdvanceDays:  30,
	}
}

// Calendar serves the shop's operating parameters. Reads go through the
// cache when one is configured; cache failures fall back to the store.
type Calendar struct {
	repo   store.SettingsRepository
	cache  Cache
	loc    *time.Location
	logger *slog.Logger
}

func New(repo store.SettingsRepository, cache Cache, loc *time.Location, logger *slog.Logger) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Calendar{
		repo:   repo,
		cache:  cache,
		loc:    loc,
		logger: logger.With("component", "calendar"),
	}
}

// Location is the business timezone used for every wall-clock rule.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) Get(ctx context.Context) (domain.Settings, error) {
	if c.cache != nil {
		s, ok, err := c.cache.Load(ctx)
		if err != nil {
			c.logger.Warn("settings cache load failed", "err", err)
		} else if ok {
			return s, nil
		}
	}
	return c.load(ctx)
}

// Refresh drops the cached copy and reloads from the store.
func (c *Calendar) Refresh(ctx context.Context) (domain.Settings, error) {
	if err := c.Invalidate(ctx); err != nil {
		c.logger.Warn("settings cache invalidate failed", "err", err)
	}
	return c.load(ctx)
}

func (c *Calendar) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Invalidate(ctx)
}

func (c *Calendar) load(ctx context.Context) (domain.Settings, error) {
	s, err := c.repo.GetOrCreate(ctx, DefaultSettings())
	if err != nil {
		return domain.Settings{}, err
	}
	if c.cache != nil {
		if err := c.cache.Store(ctx, s); err != nil {
			c.logger.Warn("settings cache store failed", "err", err)
		}
	}
	return s, nil
}

// SettingsPatch carries the fields to change. Nil means keep the current value.
type SettingsPatch struct {
	BusinessName    *string
	OpenTime        *string
	CloseTime       *string
	WorkingDays     []int
	SlotIntervalMin *int
	MinAdvanceHours *int
	MaxAdvanceDays  *int
}

func (c *Calendar) Update(ctx context.Context, patch SettingsPatch) (domain.Settings, error) {
	current, err := c.repo.GetOrCreate(ctx, DefaultSettings())
	if err != nil {
		return domain.Settings{}, err
	}

	next, err := applyPatch(current, patch)
	if err != nil {
		return domain.Settings{}, err
	}

	updated, err := c.repo.Update(ctx, next)
	if err != nil {
		return domain.Settings{}, err
	}
	if err := c.Invalidate(ctx); err != nil {
		c.logger.Warn("settings cache invalidate failed", "err", err)
	}
	return updated, nil
}

func applyPatch(s domain.Settings, p SettingsPatch) (domain.Settings, error) {
	next := s
	next.WorkingDays = slices.Clone(s.WorkingDays)

	if p.BusinessName != nil {
		name := strings.TrimSpace(*p.BusinessName)
		if name == "" {
			return domain.Settings{}, settingsError("business_name must not be empty")
		}
		next.BusinessName = name
	}
	if p.OpenTime != nil {
		if _, err := domain.ParseClock(*p.OpenTime); err != nil {
			return domain.Settings{}, settingsError("open_time must use the HH:mm format")
		}
		next.OpenTime = *p.OpenTime
	}
	if p.CloseTime != nil {
		if _, err := domain.ParseClock(*p.CloseTime); err != nil {
			return domain.Settings{}, settingsError("close_time must use the HH:mm format")
		}
		next.CloseTime = *p.CloseTime
	}
	if next.OpenMinutes() >= next.CloseMinutes() {
		return domain.Settings{}, settingsError("opening time must be before closing time")
	}

	if p.WorkingDays != nil {
		if len(p.WorkingDays) == 0 {
			return domain.Settings{}, settingsError("working_days must contain at least one day")
		}
		seen := make(map[int]struct{}, len(p.WorkingDays))
		for _, d := range p.WorkingDays {
			if d < 0 || d > 6 {
				return domain.Settings{}, settingsError(fmt.Sprintf("working_days contains %d; days go from 0 (Sunday) to 6 (Saturday)", d))
			}
			if _, ok := seen[d]; ok {
				return domain.Settings{}, settingsError("working_days must not contain duplicate days")
			}
			seen[d] = struct{}{}
		}
		next.WorkingDays = slices.Clone(p.WorkingDays)
	}

	if p.SlotIntervalMin != nil {
		if *p.SlotIntervalMin < 5 || *p.SlotIntervalMin > 120 {
			return domain.Settings{}, settingsError("slot_interval_min must be between 5 and 120")
		}
		next.SlotIntervalMin = *p.SlotIntervalMin
	}
	if p.MinAdvanceHours != nil {
		if *p.MinAdvanceHours < 0 || *p.MinAdvanceHours > 72 {
			return domain.Settings{}, settingsError("min_advance_hours must be between 0 and 72")
		}
		next.MinAdvanceHours = *p.MinAdvanceHours
	}
	if p.MaxAdvanceDays != nil {
		if *p.MaxAdvanceDays < 1 || *p.MaxAdvanceDays > 365 {
			return domain.Settings{}, settingsError("max_advance_days must be between 1 and 365")
		}
		next.MaxAdvanceDays = *p.MaxAdvanceDays
	}

	return next, nil
}

func settingsError(msg string) error {
	return domain.Invalid(domain.RuleSettings, msg)
}
