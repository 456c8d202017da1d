package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/service/calendar"
	"barberboss/backend/internal/store"
)

var loc = time.FixedZone("-03", -3*60*60)

var serviceID = uuid.MustParse("00000000-0000-0000-0000-000000000b01")

type fakeSettings struct {
	getFn func(ctx context.Context) (domain.Settings, error)
}

func (f *fakeSettings) Get(ctx context.Context) (domain.Settings, error) {
	return f.getFn(ctx)
}

type fakeCatalog struct {
	findServiceFn func(ctx context.Context, id uuid.UUID) (domain.Service, error)
}

func (f *fakeCatalog) FindService(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	return f.findServiceFn(ctx, id)
}

type fakeAppointments struct {
	listFn func(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error)
}

func (f *fakeAppointments) ListActiveAppointments(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, start, end, excludeID)
}

type fakeBlocks struct {
	listFn func(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error)
}

func (f *fakeBlocks) ListBlockCandidates(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, start, end, weekday)
}

type plannerFixture struct {
	settings *fakeSettings
	catalog  *fakeCatalog
	appts    *fakeAppointments
	blocks   *fakeBlocks
	planner  *Planner
}

func newFixture(durationMin int) *plannerFixture {
	f := &plannerFixture{
		settings: &fakeSettings{getFn: func(ctx context.Context) (domain.Settings, error) {
			return calendar.DefaultSettings(), nil
		}},
		catalog: &fakeCatalog{findServiceFn: func(ctx context.Context, id uuid.UUID) (domain.Service, error) {
			if id != serviceID {
				return domain.Service{}, store.ErrNotFound
			}
			return domain.Service{ID: id, Name: "Corte", DurationMin: durationMin, Active: true}, nil
		}},
		appts:  &fakeAppointments{},
		blocks: &fakeBlocks{},
	}
	f.planner = NewPlanner(f.settings, f.catalog, f.appts, f.blocks, loc, nil)
	f.planner.now = func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, loc) }
	return f
}

func hhmm(t time.Time) string { return t.In(loc).Format("15:04") }

func TestComputeSlotsEmptyTuesday(t *testing.T) {
	f := newFixture(30)

	res, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", serviceID)
	if err != nil {
		t.Fatalf("ComputeSlots error: %v", err)
	}
	if len(res.Slots) != 39 {
		t.Fatalf("len(slots) = %d, want 39", len(res.Slots))
	}
	if hhmm(res.Slots[0]) != "08:00" || hhmm(res.Slots[38]) != "17:30" {
		t.Fatalf("slots = %s .. %s, want 08:00 .. 17:30", hhmm(res.Slots[0]), hhmm(res.Slots[38]))
	}
	for i := 1; i < len(res.Slots); i++ {
		if res.Slots[i].Sub(res.Slots[i-1]) != 15*time.Minute {
			t.Fatalf("slots %d and %d are not 15 minutes apart", i-1, i)
		}
	}
	if res.Slots[0].Location() != time.UTC {
		t.Fatalf("slot location = %v, want UTC", res.Slots[0].Location())
	}
	if res.BusinessHours.OpenTime != "08:00" || res.BusinessHours.CloseTime != "18:00" {
		t.Fatalf("business hours = %+v", res.BusinessHours)
	}

	again, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", serviceID)
	if err != nil {
		t.Fatalf("ComputeSlots error: %v", err)
	}
	if len(again.Slots) != len(res.Slots) {
		t.Fatalf("second read returned %d slots, want %d", len(again.Slots), len(res.Slots))
	}
	for i := range res.Slots {
		if !again.Slots[i].Equal(res.Slots[i]) {
			t.Fatalf("slot %d differs between reads", i)
		}
	}
}

func TestComputeSlotsSkipsBookedAndBlocked(t *testing.T) {
	f := newFixture(30)
	f.appts.listFn = func(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error) {
		return []domain.Appointment{
			{
				ID:       uuid.MustParse("00000000-0000-0000-0000-000000000001"),
				StartsAt: time.Date(2026, 1, 6, 10, 0, 0, 0, loc),
				EndsAt:   time.Date(2026, 1, 6, 11, 0, 0, 0, loc),
				Status:   domain.StatusConfirmed,
			},
			{
				ID:       uuid.MustParse("00000000-0000-0000-0000-000000000002"),
				StartsAt: time.Date(2026, 1, 6, 14, 0, 0, 0, loc),
				EndsAt:   time.Date(2026, 1, 6, 15, 0, 0, 0, loc),
				Status:   domain.StatusCanceled,
			},
		}, nil
	}
	f.blocks.listFn = func(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error) {
		if weekday != 2 {
			t.Errorf("weekday = %d, want 2", weekday)
		}
		return []domain.TimeBlock{{
			Type:          domain.BlockLunch,
			StartsAt:      time.Date(2025, 12, 1, 12, 0, 0, 0, loc),
			EndsAt:        time.Date(2025, 12, 1, 13, 0, 0, 0, loc),
			IsRecurring:   true,
			RecurringDays: []int{1, 2, 3, 4, 5},
			Active:        true,
		}}, nil
	}

	res, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", serviceID)
	if err != nil {
		t.Fatalf("ComputeSlots error: %v", err)
	}
	got := make(map[string]bool, len(res.Slots))
	for _, s := range res.Slots {
		got[hhmm(s)] = true
	}

	for _, blocked := range []string{"09:45", "10:00", "10:30", "10:45", "11:45", "12:00", "12:45"} {
		if got[blocked] {
			t.Fatalf("slot %s should not be offered", blocked)
		}
	}
	for _, free := range []string{"09:30", "11:00", "11:30", "13:00", "14:00", "14:30"} {
		if !got[free] {
			t.Fatalf("slot %s should be offered", free)
		}
	}
}

func TestComputeSlotsRespectsNowAndMinAdvance(t *testing.T) {
	f := newFixture(30)
	f.planner.now = func() time.Time { return time.Date(2026, 1, 6, 9, 10, 0, 0, loc) }

	res, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", serviceID)
	if err != nil {
		t.Fatalf("ComputeSlots error: %v", err)
	}
	if len(res.Slots) == 0 || hhmm(res.Slots[0]) != "11:15" {
		t.Fatalf("first slot = %v, want 11:15", res.Slots)
	}
}

func TestComputeSlotsNonWorkingDay(t *testing.T) {
	f := newFixture(30)

	_, err := f.planner.ComputeSlots(context.Background(), "2026-01-04", serviceID)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *domain.NotFoundError", err)
	}
	if nf.Error() != "Sunday is not a working day. Working days: Monday, Tuesday, Wednesday, Thursday, Friday, Saturday" {
		t.Fatalf("message = %q", nf.Error())
	}
}

func TestComputeSlotsLongServiceIsEmpty(t *testing.T) {
	f := newFixture(11 * 60)

	res, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", serviceID)
	if err != nil {
		t.Fatalf("ComputeSlots error: %v", err)
	}
	if len(res.Slots) != 0 {
		t.Fatalf("len(slots) = %d, want 0", len(res.Slots))
	}
}

func TestComputeSlotsServiceErrors(t *testing.T) {
	f := newFixture(30)

	if _, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown service err = %v, want not found", err)
	}

	f.catalog.findServiceFn = func(ctx context.Context, id uuid.UUID) (domain.Service, error) {
		return domain.Service{ID: id, Name: "Barba", DurationMin: 30, Active: false}, nil
	}
	_, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", serviceID)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Rule != domain.RuleService {
		t.Fatalf("inactive service err = %v, want service validation error", err)
	}

	if _, err := f.planner.ComputeSlots(context.Background(), "06/01/2026", serviceID); !errors.As(err, &ve) || ve.Rule != domain.RuleDate {
		t.Fatalf("bad date err = %v, want date validation error", err)
	}

	boom := errors.New("db down")
	f.catalog.findServiceFn = func(ctx context.Context, id uuid.UUID) (domain.Service, error) {
		return domain.Service{}, boom
	}
	if _, err := f.planner.ComputeSlots(context.Background(), "2026-01-06", serviceID); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
