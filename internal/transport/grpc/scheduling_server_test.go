package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/service/appointments"
	"barberboss/backend/internal/service/availability"
	"barberboss/backend/internal/service/blackout"
	"barberboss/backend/internal/service/calendar"
	"barberboss/backend/internal/store"
)

type fakeAppointmentsService struct {
	createFn func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	updateFn func(ctx context.Context, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	getFn    func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	listFn   func(ctx context.Context, f appointments.ListFilter) ([]domain.Appointment, error)
}

func (f *fakeAppointmentsService) Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, in)
}

func (f *fakeAppointmentsService) Update(ctx context.Context, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, id, in)
}

func (f *fakeAppointmentsService) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeAppointmentsService) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, id)
}

func (f *fakeAppointmentsService) List(ctx context.Context, filter appointments.ListFilter) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx, filter)
}

type fakePlanner struct {
	computeFn func(ctx context.Context, date string, serviceID uuid.UUID) (availability.Result, error)
}

func (f *fakePlanner) ComputeSlots(ctx context.Context, date string, serviceID uuid.UUID) (availability.Result, error) {
	if f.computeFn == nil {
		panic("ComputeSlots not configured")
	}
	return f.computeFn(ctx, date, serviceID)
}

type fakeSettings struct {
	getFn    func(ctx context.Context) (domain.Settings, error)
	updateFn func(ctx context.Context, patch calendar.SettingsPatch) (domain.Settings, error)
}

func (f *fakeSettings) Get(ctx context.Context) (domain.Settings, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx)
}

func (f *fakeSettings) Update(ctx context.Context, patch calendar.SettingsPatch) (domain.Settings, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, patch)
}

type fakeTimeBlocks struct {
	createFn       func(ctx context.Context, in blackout.CreateInput) (domain.TimeBlock, error)
	updateFn       func(ctx context.Context, id uuid.UUID, in blackout.UpdateInput) (domain.TimeBlock, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	listFn         func(ctx context.Context) ([]domain.TimeBlock, error)
	listInRangeFn  func(ctx context.Context, start, end time.Time) ([]domain.TimeBlock, error)
	findBlockingFn func(ctx context.Context, start, end time.Time) (*domain.TimeBlock, error)
}

func (f *fakeTimeBlocks) Create(ctx context.Context, in blackout.CreateInput) (domain.TimeBlock, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, in)
}

func (f *fakeTimeBlocks) Update(ctx context.Context, id uuid.UUID, in blackout.UpdateInput) (domain.TimeBlock, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, id, in)
}

func (f *fakeTimeBlocks) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeTimeBlocks) List(ctx context.Context) ([]domain.TimeBlock, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx)
}

func (f *fakeTimeBlocks) ListInRange(ctx context.Context, start, end time.Time) ([]domain.TimeBlock, error) {
	if f.listInRangeFn == nil {
		panic("ListInRange not configured")
	}
	return f.listInRangeFn(ctx, start, end)
}

func (f *fakeTimeBlocks) FindBlocking(ctx context.Context, start, end time.Time) (*domain.TimeBlock, error) {
	if f.findBlockingFn == nil {
		panic("FindBlocking not configured")
	}
	return f.findBlockingFn(ctx, start, end)
}

var testLoc = time.FixedZone("-03", -3*60*60)

func newTestServer(svcs Services) *SchedulingServer {
	if svcs.Appointments == nil {
		svcs.Appointments = &fakeAppointmentsService{}
	}
	if svcs.Slots == nil {
		svcs.Slots = &fakePlanner{}
	}
	if svcs.Settings == nil {
		svcs.Settings = &fakeSettings{}
	}
	if svcs.TimeBlocks == nil {
		svcs.TimeBlocks = &fakeTimeBlocks{}
	}
	return NewSchedulingServer(svcs, testLoc, slog.Default())
}

func TestIdempotencyKey_ReadsHeadersAndTrims(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("idempotency-key", "  abc  "))
	if got := idempotencyKey(ctx); got != "abc" {
		t.Fatalf("idempotencyKey = %q, want %q", got, "abc")
	}

	ctx = metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-idempotency-key", "xyz"))
	if got := idempotencyKey(ctx); got != "xyz" {
		t.Fatalf("idempotencyKey = %q, want %q", got, "xyz")
	}
}

func TestCreateAppointment_RejectsInvalidServiceID(t *testing.T) {
	srv := newTestServer(Services{})

	_, err := srv.CreateAppointment(context.Background(), &CreateAppointmentRequest{
		ClientName: "Pedro",
		ServiceID:  "not-a-uuid",
		StartsAt:   "2026-01-06T10:00:00",
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestCreateAppointment_PassesInputToService(t *testing.T) {
	serviceID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	var got appointments.CreateInput

	srv := newTestServer(Services{Appointments: &fakeAppointmentsService{
		createFn: func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
			got = in
			return domain.Appointment{
				ID:        uuid.MustParse("00000000-0000-0000-0000-000000000010"),
				ServiceID: in.ServiceID,
				StartsAt:  time.Date(2026, 1, 6, 13, 0, 0, 0, time.UTC),
				EndsAt:    time.Date(2026, 1, 6, 13, 30, 0, 0, time.UTC),
				Status:    domain.StatusPending,
			}, nil
		},
	}})

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("idempotency-key", "k1"))
	resp, err := srv.CreateAppointment(ctx, &CreateAppointmentRequest{
		ClientName: "Pedro",
		ServiceID:  serviceID.String(),
		StartsAt:   "2026-01-06T10:00:00",
		Status:     "pending",
	})
	if err != nil {
		t.Fatalf("CreateAppointment error: %v", err)
	}
	if got.IdempotencyKey != "k1" {
		t.Fatalf("idempotency key = %q, want %q", got.IdempotencyKey, "k1")
	}
	if got.ServiceID != serviceID || got.ClientName != "Pedro" || got.ClientID != nil {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %q, want %q", got.Status, domain.StatusPending)
	}
	if resp.Appointment.StartsAt != "2026-01-06T10:00:00-03:00" {
		t.Fatalf("starts_at = %q, want business-local rendering", resp.Appointment.StartsAt)
	}
}

func TestCreateAppointment_RejectsUnknownStatus(t *testing.T) {
	srv := newTestServer(Services{})

	_, err := srv.CreateAppointment(context.Background(), &CreateAppointmentRequest{
		ClientName: "Pedro",
		ServiceID:  uuid.NewString(),
		StartsAt:   "2026-01-06T10:00:00",
		Status:     "ARCHIVED",
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestCreateAppointment_MapsErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", domain.Invalid(domain.RuleBusinessHours, "closed"), codes.InvalidArgument},
		{"conflict", &domain.ConflictError{Msg: "this time is already booked"}, codes.FailedPrecondition},
		{"bare conflict", store.ErrConflict, codes.FailedPrecondition},
		{"idempotency", store.ErrIdempotencyConflict, codes.FailedPrecondition},
		{"not found", &domain.NotFoundError{Entity: "service"}, codes.NotFound},
		{"contention", store.ErrContention, codes.Aborted},
		{"internal", errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(Services{Appointments: &fakeAppointmentsService{
				createFn: func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
					return domain.Appointment{}, tc.err
				},
			}})
			_, err := srv.CreateAppointment(context.Background(), &CreateAppointmentRequest{
				ClientName: "Pedro",
				ServiceID:  uuid.NewString(),
				StartsAt:   "2026-01-06T10:00:00",
			})
			if status.Code(err) != tc.want {
				t.Fatalf("code = %s, want %s", status.Code(err), tc.want)
			}
		})
	}
}

func TestCreateAppointment_ConflictMessageIsPassedThrough(t *testing.T) {
	msg := "this time is already booked. another client has an appointment for \"Corte\" on 06/01/2026 from 10:00 to 11:00. Please choose another available time."
	srv := newTestServer(Services{Appointments: &fakeAppointmentsService{
		createFn: func(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error) {
			return domain.Appointment{}, &domain.ConflictError{Msg: msg}
		},
	}})

	_, err := srv.CreateAppointment(context.Background(), &CreateAppointmentRequest{
		ClientName: "Pedro",
		ServiceID:  uuid.NewString(),
		StartsAt:   "2026-01-06T10:30:00",
	})
	if got := status.Convert(err).Message(); got != msg {
		t.Fatalf("message = %q, want %q", got, msg)
	}
}

func TestUpdateAppointment_TranslatesNullableFields(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000020")
	clientID := uuid.MustParse("00000000-0000-0000-0000-000000000030")
	var got appointments.UpdateInput

	srv := newTestServer(Services{Appointments: &fakeAppointmentsService{
		updateFn: func(ctx context.Context, gotID uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error) {
			if gotID != id {
				t.Fatalf("id = %s, want %s", gotID, id)
			}
			got = in
			return domain.Appointment{ID: id}, nil
		},
	}})

	st := "canceled"
	_, err := srv.UpdateAppointment(context.Background(), &UpdateAppointmentRequest{
		ID:         id.String(),
		ClientID:   domain.Some(clientID.String()),
		ClientName: domain.Null[string](),
		Status:     &st,
	})
	if err != nil {
		t.Fatalf("UpdateAppointment error: %v", err)
	}
	if !got.ClientID.Present || got.ClientID.Value == nil || *got.ClientID.Value != clientID {
		t.Fatalf("client_id = %+v, want %s", got.ClientID, clientID)
	}
	if !got.ClientName.Present || got.ClientName.Value != nil {
		t.Fatalf("client_name = %+v, want explicit null", got.ClientName)
	}
	if got.BarberID.Present {
		t.Fatalf("barber_id should be absent")
	}
	if got.Status == nil || *got.Status != domain.StatusCanceled {
		t.Fatalf("status = %v, want CANCELED", got.Status)
	}
}

func TestDeleteAppointment_RejectsInvalidUUID(t *testing.T) {
	srv := newTestServer(Services{})

	_, err := srv.DeleteAppointment(context.Background(), &AppointmentIDRequest{ID: "not-a-uuid"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestDeleteAppointment_MapsNotFound(t *testing.T) {
	srv := newTestServer(Services{Appointments: &fakeAppointmentsService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return &domain.NotFoundError{Entity: "appointment", ID: id.String()}
		},
	}})

	_, err := srv.DeleteAppointment(context.Background(), &AppointmentIDRequest{ID: "00000000-0000-0000-0000-000000000020"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.NotFound)
	}
}

func TestListAppointments_ParsesWindowInRequestZone(t *testing.T) {
	var gotStart, gotEnd time.Time
	srv := newTestServer(Services{Appointments: &fakeAppointmentsService{
		listFn: func(ctx context.Context, f appointments.ListFilter) ([]domain.Appointment, error) {
			gotStart, gotEnd = f.WindowStart, f.WindowEnd
			return nil, nil
		},
	}})

	resp, err := srv.ListAppointments(context.Background(), &ListAppointmentsRequest{
		WindowStart: "2026-01-06T00:00:00",
		WindowEnd:   "2026-01-07T00:00:00Z",
		TimeZone:    "UTC",
	})
	if err != nil {
		t.Fatalf("ListAppointments error: %v", err)
	}
	if !gotStart.Equal(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)) || !gotEnd.Equal(time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("window = [%s, %s)", gotStart, gotEnd)
	}
	if resp.Appointments == nil {
		t.Fatalf("appointments should be an empty list, not nil")
	}
}

func TestListAppointments_RejectsMissingWindow(t *testing.T) {
	srv := newTestServer(Services{})

	_, err := srv.ListAppointments(context.Background(), &ListAppointmentsRequest{WindowStart: "2026-01-06T00:00:00"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestListAppointments_PassesFilters(t *testing.T) {
	barber := uuid.MustParse("00000000-0000-0000-0000-000000000c01")
	client := uuid.MustParse("00000000-0000-0000-0000-000000000a01")
	var got appointments.ListFilter
	srv := newTestServer(Services{Appointments: &fakeAppointmentsService{
		listFn: func(ctx context.Context, f appointments.ListFilter) ([]domain.Appointment, error) {
			got = f
			return nil, nil
		},
	}})

	_, err := srv.ListAppointments(context.Background(), &ListAppointmentsRequest{
		Date:     "2026-01-06",
		TimeZone: "UTC",
		Status:   "pending",
		BarberID: barber.String(),
		ClientID: client.String(),
	})
	if err != nil {
		t.Fatalf("ListAppointments error: %v", err)
	}
	if got.Date != "2026-01-06" || got.TimeZone != "UTC" || got.Status != "pending" {
		t.Fatalf("filter = %+v", got)
	}
	if !got.WindowStart.IsZero() || !got.WindowEnd.IsZero() {
		t.Fatalf("window = [%s, %s), want unset", got.WindowStart, got.WindowEnd)
	}
	if got.BarberID == nil || *got.BarberID != barber || got.ClientID == nil || *got.ClientID != client {
		t.Fatalf("ids = %v/%v", got.BarberID, got.ClientID)
	}

	_, err = srv.ListAppointments(context.Background(), &ListAppointmentsRequest{Date: "2026-01-06", BarberID: "nope"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad barber id: code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}

	srv = newTestServer(Services{Appointments: &fakeAppointmentsService{
		listFn: func(ctx context.Context, f appointments.ListFilter) ([]domain.Appointment, error) {
			return nil, domain.Invalid(domain.RuleStatus, "invalid status \"DONE\"")
		},
	}})
	_, err = srv.ListAppointments(context.Background(), &ListAppointmentsRequest{Date: "2026-01-06", Status: "DONE"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad status: code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestListTimeBlocks_Range(t *testing.T) {
	var gotStart, gotEnd time.Time
	listedAll := false
	srv := newTestServer(Services{TimeBlocks: &fakeTimeBlocks{
		listFn: func(ctx context.Context) ([]domain.TimeBlock, error) {
			listedAll = true
			return nil, nil
		},
		listInRangeFn: func(ctx context.Context, start, end time.Time) ([]domain.TimeBlock, error) {
			gotStart, gotEnd = start, end
			return []domain.TimeBlock{{ID: uuid.New(), Type: domain.BlockVacation, StartsAt: start, EndsAt: end, Active: true}}, nil
		},
	}})
	ctx := context.Background()

	resp, err := srv.ListTimeBlocks(ctx, &ListTimeBlocksRequest{RangeStart: "2026-01-05T00:00", RangeEnd: "2026-01-10T00:00"})
	if err != nil {
		t.Fatalf("ListTimeBlocks error: %v", err)
	}
	if !gotStart.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, testLoc)) || !gotEnd.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, testLoc)) {
		t.Fatalf("range = [%s, %s)", gotStart, gotEnd)
	}
	if len(resp.TimeBlocks) != 1 || listedAll {
		t.Fatalf("blocks = %d, listedAll = %v", len(resp.TimeBlocks), listedAll)
	}

	if _, err := srv.ListTimeBlocks(ctx, &ListTimeBlocksRequest{}); err != nil || !listedAll {
		t.Fatalf("empty range: err = %v, listedAll = %v", err, listedAll)
	}

	_, err = srv.ListTimeBlocks(ctx, &ListTimeBlocksRequest{RangeStart: "2026-01-05T00:00"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("half range: code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestGetAvailableSlots_MapsNonWorkingDayToNotFound(t *testing.T) {
	srv := newTestServer(Services{Slots: &fakePlanner{
		computeFn: func(ctx context.Context, date string, serviceID uuid.UUID) (availability.Result, error) {
			return availability.Result{}, &domain.NotFoundError{Msg: "Sunday is not a working day."}
		},
	}})

	_, err := srv.GetAvailableSlots(context.Background(), &GetAvailableSlotsRequest{Date: "2026-01-04", ServiceID: uuid.NewString()})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.NotFound)
	}
}

func TestIsBlocked_DescribesMatchingBlock(t *testing.T) {
	block := domain.TimeBlock{
		ID:            uuid.MustParse("00000000-0000-0000-0000-000000000040"),
		Type:          domain.BlockLunch,
		Reason:        "almoço",
		StartsAt:      time.Date(2026, 1, 5, 15, 0, 0, 0, time.UTC),
		EndsAt:        time.Date(2026, 1, 5, 16, 0, 0, 0, time.UTC),
		IsRecurring:   true,
		RecurringDays: []int{1, 2, 3, 4, 5},
	}
	srv := newTestServer(Services{TimeBlocks: &fakeTimeBlocks{
		findBlockingFn: func(ctx context.Context, start, end time.Time) (*domain.TimeBlock, error) {
			return &block, nil
		},
	}})

	resp, err := srv.IsBlocked(context.Background(), &IsBlockedRequest{
		StartsAt: "2026-01-06T12:15:00",
		EndsAt:   "2026-01-06T12:45:00",
	})
	if err != nil {
		t.Fatalf("IsBlocked error: %v", err)
	}
	if !resp.Blocked || resp.Block == nil {
		t.Fatalf("expected a blocking time block, got %+v", resp)
	}
	if want := blackout.Describe(block, testLoc); resp.Message != want {
		t.Fatalf("message = %q, want %q", resp.Message, want)
	}
}

func TestUpdateTimeBlock_ParsesTimesInRequestZone(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000040")
	var got blackout.UpdateInput
	srv := newTestServer(Services{TimeBlocks: &fakeTimeBlocks{
		updateFn: func(ctx context.Context, gotID uuid.UUID, in blackout.UpdateInput) (domain.TimeBlock, error) {
			got = in
			return domain.TimeBlock{ID: gotID, Type: domain.BlockBreak}, nil
		},
	}})

	start := "2026-01-06T15:00:00"
	typ := "break"
	_, err := srv.UpdateTimeBlock(context.Background(), &UpdateTimeBlockRequest{
		ID:       id.String(),
		Type:     &typ,
		StartsAt: &start,
	})
	if err != nil {
		t.Fatalf("UpdateTimeBlock error: %v", err)
	}
	if got.Type == nil || *got.Type != domain.BlockBreak {
		t.Fatalf("type = %v, want BREAK", got.Type)
	}
	if got.StartsAt == nil || !got.StartsAt.Equal(time.Date(2026, 1, 6, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("starts_at = %v, want 18:00 UTC", got.StartsAt)
	}
	if got.EndsAt != nil {
		t.Fatalf("ends_at should stay untouched")
	}
}

func TestSchedulingService_JSONRoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	var gotKey string
	var gotName string

	s := grpc.NewServer()
	RegisterSchedulingServiceServer(s, newTestServer(Services{
		Appointments: &fakeAppointmentsService{
			updateFn: func(ctx context.Context, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error) {
				gotKey = idempotencyKey(ctx)
				if in.ClientName.Present && in.ClientName.Value != nil {
					gotName = *in.ClientName.Value
				}
				name := gotName
				return domain.Appointment{ID: id, ClientName: &name, Status: domain.StatusConfirmed}, nil
			},
		},
		Settings: &fakeSettings{
			getFn: func(ctx context.Context) (domain.Settings, error) {
				return calendar.DefaultSettings(), nil
			},
		},
	}))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	client := NewSchedulingClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := client.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.Settings.OpenTime != "08:00" || settings.Settings.SlotIntervalMin != 15 {
		t.Fatalf("unexpected settings: %+v", settings.Settings)
	}

	id := uuid.MustParse("00000000-0000-0000-0000-000000000050")
	ctx = metadata.AppendToOutgoingContext(ctx, "x-idempotency-key", "rt-1")
	resp, err := client.UpdateAppointment(ctx, &UpdateAppointmentRequest{
		ID:         id.String(),
		ClientName: domain.Some("Carlos"),
	})
	if err != nil {
		t.Fatalf("UpdateAppointment: %v", err)
	}
	if gotKey != "rt-1" {
		t.Fatalf("metadata key = %q, want %q", gotKey, "rt-1")
	}
	if gotName != "Carlos" || resp.Appointment.ClientName == nil || *resp.Appointment.ClientName != "Carlos" {
		t.Fatalf("client_name did not survive the round trip: %+v", resp.Appointment)
	}

	_, err = client.GetAppointment(ctx, &AppointmentIDRequest{ID: "nope"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}
