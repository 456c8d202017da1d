package appointments

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
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/events"
	"barberboss/backend/internal/service/blackout"
	"barberboss/backend/internal/service/calendar"
	"barberboss/backend/internal/service/conflict"
	"barberboss/backend/internal/store"
)

var tracer = otel.Tracer("barberboss/appointments")

type SettingsSource interface {
	Get(ctx context.Context) (domain.Settings, error)
}

type BlockFinder interface {
	FindBlocking(ctx context.Context, start, end time.Time) (*domain.TimeBlock, error)
}

type Deps struct {
	Appointments store.AppointmentRepository
	Catalog      store.ServiceCatalog
	Clients      store.ClientDirectory
	Settings     SettingsSource
	Blackouts    BlockFinder
	Events       events.Publisher
	Location     *time.Location
	Logger       *slog.Logger
}

// Engine validates bookings and commits them without double-booking the shop.
type Engine struct {
	repo      store.AppointmentRepository
	catalog   store.ServiceCatalog
	clients   store.ClientDirectory
	settings  SettingsSource
	blackouts BlockFinder
	events    events.Publisher
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

func NewEngine(d Deps) *Engine {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	return &Engine{
		repo:      d.Appointments,
		catalog:   d.Catalog,
		clients:   d.Clients,
		settings:  d.Settings,
		blackouts: d.Blackouts,
		events:    d.Events,
		loc:       d.Location,
		now:       time.Now,
		logger:    d.Logger.With("component", "appointments"),
	}
}

type CreateInput struct {
	ClientID   *uuid.UUID
	ClientName string
	ServiceID  uuid.UUID
	BarberID   *uuid.UUID
	// StartsAt and EndsAt are ISO-8601. Without an offset they are read in
	// TimeZone. An empty EndsAt means start plus the service duration.
	StartsAt       string
	EndsAt         string
	TimeZone       string
	Status         domain.Status
	IdempotencyKey string
}

func (e *Engine) Create(ctx context.Context, in CreateInput) (appt domain.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "appointments.Create")
	defer func() { endSpan(span, err) }()

	subject, err := domain.NewSubject(in.ClientID, in.ClientName)
	if err != nil {
		return domain.Appointment{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusConfirmed
	}
	if status != domain.StatusPending && status != domain.StatusConfirmed {
		return domain.Appointment{}, domain.Invalid(domain.RuleStatus, "new appointments must be PENDING or CONFIRMED")
	}

	loc, err := domain.ResolveLocation(in.TimeZone, e.loc)
	if err != nil {
		return domain.Appointment{}, err
	}

	svc, err := e.activeService(ctx, in.ServiceID)
	if err != nil {
		return domain.Appointment{}, err
	}

	start, err := domain.ParseInstant(in.StartsAt, loc)
	if err != nil {
		return domain.Appointment{}, err
	}
	end := start.Add(svc.Duration())
	if strings.TrimSpace(in.EndsAt) != "" {
		if end, err = domain.ParseInstant(in.EndsAt, loc); err != nil {
			return domain.Appointment{}, err
		}
	}
	span.SetAttributes(attribute.String("starts_at", start.Format(time.RFC3339)), attribute.String("ends_at", end.Format(time.RFC3339)))

	if err := e.validateSchedule(ctx, start, end, loc); err != nil {
		return domain.Appointment{}, err
	}
	if err := e.ensureClient(ctx, subject); err != nil {
		return domain.Appointment{}, err
	}

	draft := domain.Appointment{
		ServiceID: svc.ID,
		BarberID:  in.BarberID,
		StartsAt:  start,
		EndsAt:    end,
		Status:    status,
	}
	draft.SetSubject(subject)

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, domain.Invalid(domain.RuleID, "idempotency key too long")
		}
		draft.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("barberboss:create_appointment:"+key))
	}

	var replayed bool
	err = e.repo.InSchedulingTx(ctx, func(ctx context.Context, tx store.SchedulingTx) error {
		if draft.ID != uuid.Nil {
			existing, err := tx.GetAppointment(ctx, draft.ID)
			switch {
			case err == nil:
				if !sameBooking(existing, draft) {
					return store.ErrIdempotencyConflict
				}
				appt, replayed = existing, true
				return nil
			case !errors.Is(err, store.ErrNotFound):
				return err
			}
		}

		if err := e.checkCommit(ctx, tx, start, end, nil, true, loc); err != nil {
			return err
		}
		var err error
		appt, err = tx.CreateAppointment(ctx, draft)
		return err
	})
	if err != nil {
		return domain.Appointment{}, e.commitError(ctx, err, start, end, loc)
	}

	if replayed {
		e.logger.Info("appointment create replayed", "appointment_id", appt.ID)
		return appt, nil
	}
	e.logger.Info("appointment created", "appointment_id", appt.ID, "starts_at", appt.StartsAt, "status", appt.Status)
	e.publish(ctx, events.TypeAppointmentCreated, appt)
	return appt, nil
}

// UpdateInput is a partial update. For the Nullable fields, Present with a
// nil Value clears the column.
type UpdateInput struct {
	ClientID   domain.Nullable[uuid.UUID]
	ClientName domain.Nullable[string]
	ServiceID  *uuid.UUID
	BarberID   domain.Nullable[uuid.UUID]
	StartsAt   *string
	EndsAt     *string
	TimeZone   string
	Status     *domain.Status
}

func (e *Engine) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (appt domain.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "appointments.Update")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.String("appointment_id", id.String()))

	current, err := e.Get(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	loc, err := domain.ResolveLocation(in.TimeZone, e.loc)
	if err != nil {
		return domain.Appointment{}, err
	}

	plan, err := e.prepareUpdate(ctx, current, in, loc)
	if err != nil {
		return domain.Appointment{}, err
	}

	err = e.repo.InSchedulingTx(ctx, func(ctx context.Context, tx store.SchedulingTx) error {
		fresh, err := tx.GetAppointment(ctx, id)
		if err != nil {
			return err
		}
		// Another update committed since the first read: apply the patch to
		// the row as it is now.
		if !fresh.UpdatedAt.Equal(current.UpdatedAt) || !sameBooking(fresh, current) {
			if plan, err = e.prepareUpdate(ctx, fresh, in, loc); err != nil {
				return err
			}
		}
		if !plan.next.Status.IsTerminal() {
			if err := e.checkCommit(ctx, tx, plan.next.StartsAt, plan.next.EndsAt, &id, plan.rescheduled, loc); err != nil {
				return err
			}
		}
		appt, err = tx.UpdateAppointment(ctx, plan.next)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, appointmentNotFound(id)
		}
		return domain.Appointment{}, e.commitError(ctx, err, plan.next.StartsAt, plan.next.EndsAt, loc)
	}

	e.logger.Info("appointment updated", "appointment_id", appt.ID, "starts_at", appt.StartsAt, "status", appt.Status)
	e.publish(ctx, events.TypeAppointmentUpdated, appt)
	return appt, nil
}

type updatePlan struct {
	next domain.Appointment
	// rescheduled is set when the interval or the service changed, so the
	// blackout rules have to be checked again at commit.
	rescheduled bool
}

// prepareUpdate applies in to current and runs the pre-commit validation on
// the result.
func (e *Engine) prepareUpdate(ctx context.Context, current domain.Appointment, in UpdateInput, loc *time.Location) (updatePlan, error) {
	subject, subjectChanged, err := domain.MergeSubject(current.Subject(), in.ClientID, in.ClientName)
	if err != nil {
		return updatePlan{}, err
	}

	next := current
	next.SetSubject(subject)
	if in.BarberID.Present {
		next.BarberID = nil
		if in.BarberID.Value != nil {
			barber := *in.BarberID.Value
			next.BarberID = &barber
		}
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return updatePlan{}, domain.Invalid(domain.RuleStatus, fmt.Sprintf("invalid status %q", *in.Status))
		}
		next.Status = *in.Status
	}

	serviceChanged := in.ServiceID != nil && *in.ServiceID != current.ServiceID
	intervalChanged := in.StartsAt != nil || in.EndsAt != nil

	var svc domain.Service
	if serviceChanged {
		if svc, err = e.activeService(ctx, *in.ServiceID); err != nil {
			return updatePlan{}, err
		}
		next.ServiceID = svc.ID
	}

	if intervalChanged {
		if in.StartsAt != nil {
			if next.StartsAt, err = domain.ParseInstant(*in.StartsAt, loc); err != nil {
				return updatePlan{}, err
			}
		}
		switch {
		case in.EndsAt != nil:
			if next.EndsAt, err = domain.ParseInstant(*in.EndsAt, loc); err != nil {
				return updatePlan{}, err
			}
		case in.StartsAt != nil:
			if !serviceChanged {
				if svc, err = e.service(ctx, current.ServiceID); err != nil {
					return updatePlan{}, err
				}
			}
			next.EndsAt = next.StartsAt.Add(svc.Duration())
		}
	}

	rescheduled := intervalChanged || serviceChanged
	if rescheduled {
		if err := e.validateSchedule(ctx, next.StartsAt, next.EndsAt, loc); err != nil {
			return updatePlan{}, err
		}
	} else if !next.StartsAt.Before(next.EndsAt) {
		return updatePlan{}, intervalError(next.StartsAt, next.EndsAt, loc)
	}

	if subjectChanged {
		if err := e.ensureClient(ctx, subject); err != nil {
			return updatePlan{}, err
		}
	}
	return updatePlan{next: next, rescheduled: rescheduled}, nil
}

func (e *Engine) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracer.Start(ctx, "appointments.Delete")
	defer func() { endSpan(span, err) }()

	appt, err := e.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := e.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return appointmentNotFound(id)
		}
		return err
	}

	e.logger.Info("appointment deleted", "appointment_id", id)
	e.publish(ctx, events.TypeAppointmentDeleted, appt)
	return nil
}

func (e *Engine) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, domain.Invalid(domain.RuleID, "appointment_id is required")
	}
	appt, err := e.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, appointmentNotFound(id)
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

// ListFilter bounds a listing either by an explicit window or by Date, a
// YYYY-MM-DD day read in TimeZone. The other fields are optional.
type ListFilter struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Date        string
	TimeZone    string
	Status      domain.Status
	BarberID    *uuid.UUID
	ClientID    *uuid.UUID
}

// List returns appointments intersecting the window that match every filter
// set, ordered by start time.
func (e *Engine) List(ctx context.Context, f ListFilter) ([]domain.Appointment, error) {
	start := f.WindowStart.UTC()
	end := f.WindowEnd.UTC()
	hasWindow := !f.WindowStart.IsZero() || !f.WindowEnd.IsZero()

	if date := strings.TrimSpace(f.Date); date != "" {
		if hasWindow {
			return nil, domain.Invalid(domain.RuleDate, "use either date or window_start/window_end, not both")
		}
		loc, err := domain.ResolveLocation(f.TimeZone, e.loc)
		if err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation(time.DateOnly, date, loc)
		if err != nil {
			return nil, domain.Invalid(domain.RuleDate, fmt.Sprintf("%q is not a valid date; use YYYY-MM-DD", f.Date))
		}
		start, end = day.UTC(), day.AddDate(0, 0, 1).UTC()
	} else if !start.Before(end) {
		return nil, domain.InvalidInterval(domain.RuleInterval, "window_end must be after window_start", start, end)
	}

	if f.Status != "" {
		st, err := domain.ParseStatus(string(f.Status))
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	return e.repo.List(ctx, store.AppointmentFilter{
		WindowStart: start,
		WindowEnd:   end,
		Status:      f.Status,
		BarberID:    f.BarberID,
		ClientID:    f.ClientID,
	})
}

// validateSchedule runs every rule check that happens before the transaction.
func (e *Engine) validateSchedule(ctx context.Context, start, end time.Time, loc *time.Location) error {
	if !start.Before(end) {
		return intervalError(start, end, loc)
	}

	settings, err := e.settings.Get(ctx)
	if err != nil {
		return err
	}
	if err := calendar.ValidateInterval(settings, start, end, e.loc, e.now()); err != nil {
		return err
	}

	block, err := e.blackouts.FindBlocking(ctx, start, end)
	if err != nil {
		return err
	}
	if block != nil {
		return &domain.ValidationError{
			Rule:  domain.RuleBlackout,
			Msg:   blackout.Describe(*block, loc),
			Start: start,
			End:   end,
			Block: block,
		}
	}
	return nil
}

// checkCommit is the authoritative re-check run on rows read inside the
// scheduling transaction.
func (e *Engine) checkCommit(ctx context.Context, tx store.SchedulingTx, start, end time.Time, excludeID *uuid.UUID, withBlocks bool, loc *time.Location) error {
	conflicts, err := conflict.FindConflicts(ctx, tx, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		hit := conflicts[0]
		return &domain.ConflictError{Start: start, End: end, Appointment: &hit}
	}
	if !withBlocks {
		return nil
	}

	blocks, err := tx.ListBlockCandidates(ctx, start, end, domain.Weekday(start, e.loc))
	if err != nil {
		return err
	}
	if b := blackout.FirstMatch(blocks, start, end, e.loc); b != nil {
		return &domain.ConflictError{Start: start, End: end, Block: b, Msg: blackout.Describe(*b, loc)}
	}
	return nil
}

// commitError fills in conflict messages once the transaction is over and
// turns an exclusion-constraint violation into a ConflictError.
func (e *Engine) commitError(ctx context.Context, err error, start, end time.Time, loc *time.Location) error {
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		if ce.Msg == "" && ce.Appointment != nil {
			ce.Msg = e.conflictMessage(ctx, *ce.Appointment, loc)
		}
		e.logger.Info("appointment conflict", "starts_at", start, "ends_at", end)
		return ce
	}
	if errors.Is(err, store.ErrConflict) {
		return &domain.ConflictError{Start: start, End: end}
	}
	return err
}

func (e *Engine) conflictMessage(ctx context.Context, a domain.Appointment, loc *time.Location) string {
	client := "another client"
	if name, ok := a.Subject().ClientName(); ok {
		client = name
	} else if id, ok := a.Subject().ClientID(); ok {
		if name, err := e.clients.ClientName(ctx, id); err == nil && strings.TrimSpace(name) != "" {
			client = name
		}
	}
	serviceName := "a service"
	if svc, err := e.catalog.FindService(ctx, a.ServiceID); err == nil {
		serviceName = svc.Name
	}
	startLocal := a.StartsAt.In(loc)
	return fmt.Sprintf(
		"this time is already booked. %s has an appointment for %q on %s from %s to %s. Please choose another available time.",
		client, serviceName, startLocal.Format("02/01/2006"), startLocal.Format("15:04"), a.EndsAt.In(loc).Format("15:04"),
	)
}

func (e *Engine) service(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	if id == uuid.Nil {
		return domain.Service{}, domain.Invalid(domain.RuleService, "service_id is required")
	}
	svc, err := e.catalog.FindService(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Service{}, &domain.NotFoundError{Entity: "service", ID: id.String()}
		}
		return domain.Service{}, err
	}
	return svc, nil
}

func (e *Engine) activeService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	svc, err := e.service(ctx, id)
	if err != nil {
		return domain.Service{}, err
	}
	if !svc.Active {
		return domain.Service{}, domain.Invalid(domain.RuleService, fmt.Sprintf("the service %q is no longer available for booking", svc.Name))
	}
	return svc, nil
}

func (e *Engine) ensureClient(ctx context.Context, s domain.Subject) error {
	id, ok := s.ClientID()
	if !ok {
		return nil
	}
	exists, err := e.clients.ClientExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &domain.NotFoundError{Entity: "client", ID: id.String(), Msg: "client not found. Check that the registration is correct."}
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, eventType string, appt domain.Appointment) {
	if err := e.events.Publish(ctx, events.AppointmentEvent(eventType, appt, e.now())); err != nil {
		e.logger.Error("publish event failed", "event_type", eventType, "appointment_id", appt.ID, "err", err)
	}
}

func sameBooking(a, b domain.Appointment) bool {
	return a.Subject() == b.Subject() &&
		a.ServiceID == b.ServiceID &&
		equalID(a.BarberID, b.BarberID) &&
		a.StartsAt.Equal(b.StartsAt) &&
		a.EndsAt.Equal(b.EndsAt) &&
		a.Status == b.Status
}

func equalID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intervalError(start, end time.Time, loc *time.Location) error {
	return domain.InvalidInterval(domain.RuleInterval, fmt.Sprintf(
		"the start (%s) must be before the end (%s)",
		start.In(loc).Format("02/01/2006 15:04"), end.In(loc).Format("02/01/2006 15:04"),
	), start, end)
}

func appointmentNotFound(id uuid.UUID) error {
	return &domain.NotFoundError{Entity: "appointment", ID: id.String()}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
