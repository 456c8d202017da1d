package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/service/appointments"
	"barberboss/backend/internal/service/availability"
	"barberboss/backend/internal/service/blackout"
	"barberboss/backend/internal/service/calendar"
	"barberboss/backend/internal/store"
)

type appointmentsService interface {
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	List(ctx context.Context, f appointments.ListFilter) ([]domain.Appointment, error)
}

type slotPlanner interface {
	ComputeSlots(ctx context.Context, date string, serviceID uuid.UUID) (availability.Result, error)
}

type settingsService interface {
	Get(ctx context.Context) (domain.Settings, error)
	Update(ctx context.Context, patch calendar.SettingsPatch) (domain.Settings, error)
}

type timeBlockService interface {
	Create(ctx context.Context, in blackout.CreateInput) (domain.TimeBlock, error)
	Update(ctx context.Context, id uuid.UUID, in blackout.UpdateInput) (domain.TimeBlock, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.TimeBlock, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]domain.TimeBlock, error)
	FindBlocking(ctx context.Context, start, end time.Time) (*domain.TimeBlock, error)
}

type Services struct {
	Appointments appointmentsService
	Slots        slotPlanner
	Settings     settingsService
	TimeBlocks   timeBlockService
}

type SchedulingServer struct {
	appts    appointmentsService
	slots    slotPlanner
	settings settingsService
	blocks   timeBlockService
	loc      *time.Location
	log      *slog.Logger
}

var _ SchedulingServiceServer = (*SchedulingServer)(nil)

// NewSchedulingServer renders every timestamp it returns in loc.
func NewSchedulingServer(svcs Services, loc *time.Location, log *slog.Logger) *SchedulingServer {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &SchedulingServer{
		appts:    svcs.Appointments,
		slots:    svcs.Slots,
		settings: svcs.Settings,
		blocks:   svcs.TimeBlocks,
		loc:      loc,
		log:      log.With(slog.String("component", "grpc.scheduling")),
	}
}

func (s *SchedulingServer) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	serviceID, err := parseID(req.ServiceID, "service_id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "service_id"))
		return nil, err
	}
	clientID, err := parseOptionalID(req.ClientID, "client_id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "client_id"))
		return nil, err
	}
	barberID, err := parseOptionalID(req.BarberID, "barber_id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "barber_id"))
		return nil, err
	}
	var st domain.Status
	if strings.TrimSpace(req.Status) != "" {
		if st, err = domain.ParseStatus(req.Status); err != nil {
			return nil, s.statusError(log, "appointment create", err)
		}
	}

	appt, err := s.appts.Create(ctx, appointments.CreateInput{
		ClientID:       clientID,
		ClientName:     req.ClientName,
		ServiceID:      serviceID,
		BarberID:       barberID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		TimeZone:       req.TimeZone,
		Status:         st,
		IdempotencyKey: idempotencyKey(ctx),
	})
	if err != nil {
		return nil, s.statusError(log, "appointment create", err,
			slog.String("service_id", serviceID.String()),
			slog.String("starts_at", req.StartsAt),
			slog.String("ends_at", req.EndsAt),
		)
	}

	log.Info(
		"appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("service_id", appt.ServiceID.String()),
		slog.Time("starts_at", appt.StartsAt),
		slog.Time("ends_at", appt.EndsAt),
		slog.String("status", string(appt.Status)),
	)
	return &AppointmentResponse{Appointment: s.toWireAppointment(appt)}, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (s *SchedulingServer) UpdateAppointment(ctx context.Context, req *UpdateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}

	in := appointments.UpdateInput{
		ClientName: req.ClientName,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		TimeZone:   req.TimeZone,
	}
	if in.ClientID, err = parseNullableID(req.ClientID, "client_id"); err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "client_id"))
		return nil, err
	}
	if in.BarberID, err = parseNullableID(req.BarberID, "barber_id"); err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "barber_id"))
		return nil, err
	}
	if in.ServiceID, err = parseOptionalID(req.ServiceID, "service_id"); err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "service_id"))
		return nil, err
	}
	if req.Status != nil {
		st, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, s.statusError(log, "appointment update", err, slog.String("appointment_id", id.String()))
		}
		in.Status = &st
	}

	appt, err := s.appts.Update(ctx, id, in)
	if err != nil {
		return nil, s.statusError(log, "appointment update", err, slog.String("appointment_id", id.String()))
	}

	log.Info(
		"appointment updated",
		slog.String("appointment_id", appt.ID.String()),
		slog.Time("starts_at", appt.StartsAt),
		slog.Time("ends_at", appt.EndsAt),
		slog.String("status", string(appt.Status)),
	)
	return &AppointmentResponse{Appointment: s.toWireAppointment(appt)}, nil
}

func (s *SchedulingServer) DeleteAppointment(ctx context.Context, req *AppointmentIDRequest) (*Empty, error) {
	log := s.log.With(slog.String("rpc", "DeleteAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}

	if err := s.appts.Delete(ctx, id); err != nil {
		return nil, s.statusError(log, "appointment delete", err, slog.String("appointment_id", id.String()))
	}

	log.Info("appointment deleted", slog.String("appointment_id", id.String()))
	return &Empty{}, nil
}

func (s *SchedulingServer) GetAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}

	appt, err := s.appts.Get(ctx, id)
	if err != nil {
		return nil, s.statusError(log, "appointment get", err, slog.String("appointment_id", id.String()))
	}
	return &AppointmentResponse{Appointment: s.toWireAppointment(appt)}, nil
}

func (s *SchedulingServer) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListAppointments"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	filter := appointments.ListFilter{
		Date:     strings.TrimSpace(req.Date),
		TimeZone: req.TimeZone,
		Status:   domain.Status(strings.TrimSpace(req.Status)),
	}
	hasWindow := strings.TrimSpace(req.WindowStart) != "" || strings.TrimSpace(req.WindowEnd) != ""
	switch {
	case hasWindow:
		if strings.TrimSpace(req.WindowStart) == "" || strings.TrimSpace(req.WindowEnd) == "" {
			log.Warn("invalid request", slog.String("reason", "missing_window"))
			return nil, status.Error(codes.InvalidArgument, "window_start and window_end are required together")
		}
		var err error
		filter.WindowStart, filter.WindowEnd, err = s.parseInterval(req.WindowStart, req.WindowEnd, req.TimeZone)
		if err != nil {
			return nil, s.statusError(log, "appointments list", err)
		}
	case filter.Date == "":
		log.Warn("invalid request", slog.String("reason", "missing_window"))
		return nil, status.Error(codes.InvalidArgument, "window_start and window_end, or date, are required")
	}

	var err error
	if filter.BarberID, err = parseOptionalID(&req.BarberID, "barber_id"); err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "barber_id"))
		return nil, err
	}
	if filter.ClientID, err = parseOptionalID(&req.ClientID, "client_id"); err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "client_id"))
		return nil, err
	}

	appts, err := s.appts.List(ctx, filter)
	if err != nil {
		return nil, s.statusError(log, "appointments list", err)
	}

	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, s.toWireAppointment(a))
	}

	log.Debug(
		"appointments listed",
		slog.Int("count", len(out)),
		slog.String("date", filter.Date),
		slog.Time("window_start", filter.WindowStart),
		slog.Time("window_end", filter.WindowEnd),
	)
	return &ListAppointmentsResponse{Appointments: out}, nil
}

func (s *SchedulingServer) GetAvailableSlots(ctx context.Context, req *GetAvailableSlotsRequest) (*GetAvailableSlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "GetAvailableSlots"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	serviceID, err := parseID(req.ServiceID, "service_id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "service_id"))
		return nil, err
	}

	res, err := s.slots.ComputeSlots(ctx, req.Date, serviceID)
	if err != nil {
		return nil, s.statusError(log, "available slots", err,
			slog.String("date", req.Date),
			slog.String("service_id", serviceID.String()),
		)
	}

	slots := make([]string, 0, len(res.Slots))
	for _, t := range res.Slots {
		slots = append(slots, s.formatTime(t))
	}

	log.Debug("available slots computed", slog.String("date", req.Date), slog.Int("count", len(slots)))
	return &GetAvailableSlotsResponse{
		Date:      req.Date,
		ServiceID: serviceID.String(),
		Slots:     slots,
		BusinessHours: BusinessHours{
			Open:  res.BusinessHours.OpenTime,
			Close: res.BusinessHours.CloseTime,
		},
	}, nil
}

func (s *SchedulingServer) GetSettings(ctx context.Context, _ *Empty) (*SettingsResponse, error) {
	log := s.log.With(slog.String("rpc", "GetSettings"))

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, s.statusError(log, "settings get", err)
	}
	return &SettingsResponse{Settings: s.toWireSettings(st)}, nil
}

func (s *SchedulingServer) UpdateSettings(ctx context.Context, req *UpdateSettingsRequest) (*SettingsResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateSettings"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	st, err := s.settings.Update(ctx, calendar.SettingsPatch{
		BusinessName:    req.BusinessName,
		OpenTime:        req.OpenTime,
		CloseTime:       req.CloseTime,
		WorkingDays:     req.WorkingDays,
		SlotIntervalMin: req.SlotIntervalMin,
		MinAdvanceHours: req.MinAdvanceHours,
		MaxAdvanceDays:  req.MaxAdvanceDays,
	})
	if err != nil {
		return nil, s.statusError(log, "settings update", err)
	}

	log.Info("settings updated", slog.String("open_time", st.OpenTime), slog.String("close_time", st.CloseTime))
	return &SettingsResponse{Settings: s.toWireSettings(st)}, nil
}

func (s *SchedulingServer) CreateTimeBlock(ctx context.Context, req *CreateTimeBlockRequest) (*TimeBlockResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateTimeBlock"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	start, end, err := s.parseInterval(req.StartsAt, req.EndsAt, req.TimeZone)
	if err != nil {
		return nil, s.statusError(log, "time block create", err)
	}

	b, err := s.blocks.Create(ctx, blackout.CreateInput{
		Type:          domain.BlockType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Reason:        req.Reason,
		StartsAt:      start,
		EndsAt:        end,
		IsRecurring:   req.IsRecurring,
		RecurringDays: req.RecurringDays,
	})
	if err != nil {
		return nil, s.statusError(log, "time block create", err)
	}

	log.Info("time block created", slog.String("block_id", b.ID.String()), slog.String("type", string(b.Type)))
	return &TimeBlockResponse{TimeBlock: s.toWireTimeBlock(b)}, nil
}

func (s *SchedulingServer) UpdateTimeBlock(ctx context.Context, req *UpdateTimeBlockRequest) (*TimeBlockResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateTimeBlock"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}
	loc, err := domain.ResolveLocation(req.TimeZone, s.loc)
	if err != nil {
		return nil, s.statusError(log, "time block update", err, slog.String("block_id", id.String()))
	}

	in := blackout.UpdateInput{
		Reason:        req.Reason,
		IsRecurring:   req.IsRecurring,
		RecurringDays: req.RecurringDays,
	}
	if req.Type != nil {
		t := domain.BlockType(strings.ToUpper(strings.TrimSpace(*req.Type)))
		in.Type = &t
	}
	if in.StartsAt, err = parseOptionalInstant(req.StartsAt, loc); err != nil {
		return nil, s.statusError(log, "time block update", err, slog.String("block_id", id.String()))
	}
	if in.EndsAt, err = parseOptionalInstant(req.EndsAt, loc); err != nil {
		return nil, s.statusError(log, "time block update", err, slog.String("block_id", id.String()))
	}

	b, err := s.blocks.Update(ctx, id, in)
	if err != nil {
		return nil, s.statusError(log, "time block update", err, slog.String("block_id", id.String()))
	}

	log.Info("time block updated", slog.String("block_id", b.ID.String()))
	return &TimeBlockResponse{TimeBlock: s.toWireTimeBlock(b)}, nil
}

func (s *SchedulingServer) DeleteTimeBlock(ctx context.Context, req *TimeBlockIDRequest) (*Empty, error) {
	log := s.log.With(slog.String("rpc", "DeleteTimeBlock"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID(req.ID, "id")
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"), slog.String("field", "id"))
		return nil, err
	}

	if err := s.blocks.Delete(ctx, id); err != nil {
		return nil, s.statusError(log, "time block delete", err, slog.String("block_id", id.String()))
	}

	log.Info("time block deleted", slog.String("block_id", id.String()))
	return &Empty{}, nil
}

func (s *SchedulingServer) ListTimeBlocks(ctx context.Context, req *ListTimeBlocksRequest) (*ListTimeBlocksResponse, error) {
	log := s.log.With(slog.String("rpc", "ListTimeBlocks"))

	if req == nil {
		req = &ListTimeBlocksRequest{}
	}
	rawStart, rawEnd := strings.TrimSpace(req.RangeStart), strings.TrimSpace(req.RangeEnd)

	var (
		blocks []domain.TimeBlock
		err    error
	)
	switch {
	case rawStart == "" && rawEnd == "":
		blocks, err = s.blocks.List(ctx)
	case rawStart == "" || rawEnd == "":
		log.Warn("invalid request", slog.String("reason", "missing_range"))
		return nil, status.Error(codes.InvalidArgument, "range_start and range_end are required together")
	default:
		var start, end time.Time
		if start, end, err = s.parseInterval(rawStart, rawEnd, req.TimeZone); err != nil {
			return nil, s.statusError(log, "time blocks list", err)
		}
		blocks, err = s.blocks.ListInRange(ctx, start, end)
	}
	if err != nil {
		return nil, s.statusError(log, "time blocks list", err)
	}

	out := make([]TimeBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, s.toWireTimeBlock(b))
	}
	log.Debug("time blocks listed", slog.Int("count", len(out)))
	return &ListTimeBlocksResponse{TimeBlocks: out}, nil
}

func (s *SchedulingServer) IsBlocked(ctx context.Context, req *IsBlockedRequest) (*IsBlockedResponse, error) {
	log := s.log.With(slog.String("rpc", "IsBlocked"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	start, end, err := s.parseInterval(req.StartsAt, req.EndsAt, req.TimeZone)
	if err != nil {
		return nil, s.statusError(log, "blocked check", err)
	}

	b, err := s.blocks.FindBlocking(ctx, start, end)
	if err != nil {
		return nil, s.statusError(log, "blocked check", err)
	}
	if b == nil {
		return &IsBlockedResponse{}, nil
	}
	wire := s.toWireTimeBlock(*b)
	return &IsBlockedResponse{
		Blocked: true,
		Message: blackout.Describe(*b, s.loc),
		Block:   &wire,
	}, nil
}

// statusError logs err at the level its kind deserves and converts it to a
// gRPC status. Messages of domain errors are meant for end users and are
// passed through unchanged.
func (s *SchedulingServer) statusError(log *slog.Logger, op string, err error, attrs ...any) error {
	args := append([]any{slog.Any("err", err)}, attrs...)

	var (
		vErr  *domain.ValidationError
		cErr  *domain.ConflictError
		nfErr *domain.NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", append(args, slog.String("rule", string(vErr.Rule)))...)
		return status.Error(codes.InvalidArgument, vErr.Error())
	case errors.As(err, &cErr):
		log.Info(op+" conflict", args...)
		return status.Error(codes.FailedPrecondition, cErr.Error())
	case errors.Is(err, store.ErrConflict):
		log.Info(op+" conflict", args...)
		return status.Error(codes.FailedPrecondition, "This time is no longer available. Pick a different slot.")
	case errors.Is(err, store.ErrIdempotencyConflict):
		log.Info(op+" idempotency conflict", args...)
		return status.Error(codes.FailedPrecondition, "This request key was already used for a different appointment. Try again.")
	case errors.As(err, &nfErr):
		log.Info(op+" not found", args...)
		return status.Error(codes.NotFound, nfErr.Error())
	case errors.Is(err, store.ErrNotFound):
		log.Info(op+" not found", args...)
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, store.ErrContention):
		log.Warn(op+" contention", args...)
		return status.Error(codes.Aborted, "The schedule is busy right now. Try again.")
	case errors.Is(err, context.Canceled):
		log.Info(op+" canceled", args...)
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn(op+" timed out", args...)
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}
	log.Error(op+" failed", args...)
	return status.Error(codes.Internal, "internal error")
}

func (s *SchedulingServer) parseInterval(rawStart, rawEnd, tz string) (time.Time, time.Time, error) {
	loc, err := domain.ResolveLocation(tz, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := domain.ParseInstant(rawStart, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := domain.ParseInstant(rawEnd, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseOptionalInstant(raw *string, loc *time.Location) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := domain.ParseInstant(*raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, field+" must be a UUID")
	}
	return id, nil
}

func parseOptionalID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := parseID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseNullableID(raw domain.Nullable[string], field string) (domain.Nullable[uuid.UUID], error) {
	if !raw.Present {
		return domain.Nullable[uuid.UUID]{}, nil
	}
	if raw.Value == nil {
		return domain.Null[uuid.UUID](), nil
	}
	id, err := parseID(*raw.Value, field)
	if err != nil {
		return domain.Nullable[uuid.UUID]{}, err
	}
	return domain.Some(id), nil
}

func (s *SchedulingServer) formatTime(t time.Time) string {
	return t.In(s.loc).Format(time.RFC3339)
}

func (s *SchedulingServer) toWireAppointment(a domain.Appointment) Appointment {
	out := Appointment{
		ID:         a.ID.String(),
		ClientName: a.ClientName,
		ServiceID:  a.ServiceID.String(),
		StartsAt:   s.formatTime(a.StartsAt),
		EndsAt:     s.formatTime(a.EndsAt),
		Status:     string(a.Status),
		CreatedAt:  s.formatTime(a.CreatedAt),
		UpdatedAt:  s.formatTime(a.UpdatedAt),
	}
	if a.ClientID != nil {
		v := a.ClientID.String()
		out.ClientID = &v
	}
	if a.BarberID != nil {
		v := a.BarberID.String()
		out.BarberID = &v
	}
	return out
}

func (s *SchedulingServer) toWireSettings(st domain.Settings) Settings {
	out := Settings{
		BusinessName:    st.BusinessName,
		OpenTime:        st.OpenTime,
		CloseTime:       st.CloseTime,
		WorkingDays:     st.WorkingDays,
		SlotIntervalMin: st.SlotIntervalMin,
		MinAdvanceHours: st.MinAdvanceHours,
		MaxAdvanceDays:  st.MaxAdvanceDays,
	}
	if !st.UpdatedAt.IsZero() {
		out.UpdatedAt = s.formatTime(st.UpdatedAt)
	}
	return out
}

func (s *SchedulingServer) toWireTimeBlock(b domain.TimeBlock) TimeBlock {
	days := b.RecurringDays
	if days == nil {
		days = []int{}
	}
	return TimeBlock{
		ID:            b.ID.String(),
		Type:          string(b.Type),
		TypeLabel:     blackout.TypeLabel(b.Type),
		Reason:        b.Reason,
		StartsAt:      s.formatTime(b.StartsAt),
		EndsAt:        s.formatTime(b.EndsAt),
		IsRecurring:   b.IsRecurring,
		RecurringDays: days,
		CreatedAt:     s.formatTime(b.CreatedAt),
		UpdatedAt:     s.formatTime(b.UpdatedAt),
	}
}
