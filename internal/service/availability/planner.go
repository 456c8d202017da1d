package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/service/blackout"
	"barberboss/backend/internal/service/calendar"
	"barberboss/backend/internal/service/conflict"
	"barberboss/backend/internal/store"
)

var tracer = otel.Tracer("barberboss/availability")

type SettingsSource interface {
	Get(ctx context.Context) (domain.Settings, error)
}

type BlockSource interface {
	ListBlockCandidates(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error)
}

type BusinessHours struct {
	OpenTime  string
	CloseTime string
}

type Result struct {
	Slots         []time.Time
	BusinessHours BusinessHours
}

// Planner lists bookable start times. It only reads.
type Planner struct {
	settings SettingsSource
	catalog  store.ServiceCatalog
	appts    conflict.Querier
	blocks   BlockSource
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewPlanner(settings SettingsSource, catalog store.ServiceCatalog, appts conflict.Querier, blocks BlockSource, loc *time.Location, logger *slog.Logger) *Planner {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		settings: settings,
		catalog:  catalog,
		appts:    appts,
		blocks:   blocks,
		loc:      loc,
		now:      time.Now,
		logger:   logger.With("component", "availability"),
	}
}

// ComputeSlots returns the free start times for serviceID on date
// (YYYY-MM-DD, business timezone), in chronological order.
func (p *Planner) ComputeSlots(ctx context.Context, date string, serviceID uuid.UUID) (Result, error) {
	ctx, span := tracer.Start(ctx, "availability.ComputeSlots")
	defer span.End()
	span.SetAttributes(attribute.String("date", date), attribute.String("service_id", serviceID.String()))

	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(date), p.loc)
	if err != nil {
		return Result{}, domain.Invalid(domain.RuleDate, fmt.Sprintf("%q is not a valid date; use YYYY-MM-DD", date))
	}
	if serviceID == uuid.Nil {
		return Result{}, domain.Invalid(domain.RuleService, "service_id is required")
	}

	var (
		settings   domain.Settings
		svc        domain.Service
		serviceErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = p.settings.Get(gctx)
		return err
	})
	g.Go(func() error {
		svc, serviceErr = p.catalog.FindService(gctx, serviceID)
		if serviceErr != nil && !errors.Is(serviceErr, store.ErrNotFound) {
			return serviceErr
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	weekday := int(day.Weekday())
	if !settings.IsWorkingDay(weekday) {
		names := make([]string, 0, len(settings.WorkingDays))
		for _, d := range settings.WorkingDays {
			names = append(names, calendar.WeekdayName(d))
		}
		return Result{}, &domain.NotFoundError{
			Entity: "working day",
			Msg:    fmt.Sprintf("%s is not a working day. Working days: %s", calendar.WeekdayName(weekday), strings.Join(names, ", ")),
		}
	}
	if serviceErr != nil {
		return Result{}, &domain.NotFoundError{Entity: "service", ID: serviceID.String()}
	}
	if !svc.Active {
		return Result{}, domain.Invalid(domain.RuleService, fmt.Sprintf("the service %q is no longer available for booking", svc.Name))
	}

	openAt, closeAt := calendar.OpeningWindow(settings, day, p.loc)
	result := Result{
		Slots:         []time.Time{},
		BusinessHours: BusinessHours{OpenTime: settings.OpenTime, CloseTime: settings.CloseTime},
	}
	step := time.Duration(settings.SlotIntervalMin) * time.Minute
	if step <= 0 {
		return Result{}, domain.Invalid(domain.RuleSettings, "slot_interval_min must be positive")
	}
	duration := svc.Duration()
	if duration <= 0 || openAt.Add(duration).After(closeAt) {
		return result, nil
	}

	var (
		appts  []domain.Appointment
		blocks []domain.TimeBlock
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = conflict.FindConflicts(gctx, p.appts, openAt, closeAt, nil)
		return err
	})
	g.Go(func() error {
		var err error
		blocks, err = p.blocks.ListBlockCandidates(gctx, openAt, closeAt, weekday)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	now := p.now()
	minAdvance := settings.MinAdvance()
	for start := openAt; !start.Add(duration).After(closeAt); start = start.Add(step) {
		end := start.Add(duration)
		if !start.After(now) || start.Sub(now) < minAdvance {
			continue
		}
		if conflict.Any(appts, start, end, nil) {
			continue
		}
		if blackout.FirstMatch(blocks, start, end, p.loc) != nil {
			continue
		}
		result.Slots = append(result.Slots, start.UTC())
	}

	p.logger.Debug("slots computed", "date", date, "service_id", serviceID, "slots", len(result.Slots))
	return result, nil
}
