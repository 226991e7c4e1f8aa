package attendance

import (
	"context"
	"testing"
	"time"

	"presenca.io/entities"
	matchertypes "presenca.io/infrastructure/matcher/types"
)

type memoryEventStore struct {
	saved []entities.AttendanceEvent
}

func (s *memoryEventStore) CountForWindow(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	count := int64(0)
	for _, event := range s.saved {
		if event.EmployeeID == employeeID && !event.Timestamp.Before(from) && event.Timestamp.Before(to) {
			count++
		}
	}
	return count, nil
}

func (s *memoryEventStore) Save(ctx context.Context, event entities.AttendanceEvent) (*entities.AttendanceEvent, error) {
	event.ID = "evt_" + string(rune('a'+len(s.saved)))
	s.saved = append(s.saved, event)
	return &event, nil
}

type fixedShiftSource struct {
	shift *entities.Shift
}

func (s fixedShiftSource) ShiftFor(ctx context.Context, employeeID string) (*entities.Shift, error) {
	return s.shift, nil
}

type recordingDispatcher struct {
	events []entities.AttendanceEvent
}

func (d *recordingDispatcher) EventRecorded(event entities.AttendanceEvent) error {
	d.events = append(d.events, event)
	return nil
}

func adaMatch() *matchertypes.MatchResult {
	return &matchertypes.MatchResult{
		Outcome:    matchertypes.Matched,
		EmployeeID: "emp_1",
		Name:       "Ada Obi",
		Distance:   0.35,
		Threshold:  0.6,
	}
}

func TestServiceRecordsAFullDay(t *testing.T) {
	store := &memoryEventStore{}
	dispatcher := &recordingDispatcher{}
	service := &Service{
		Events:     store,
		Shifts:     fixedShiftSource{shift: nineToFive()},
		Dispatcher: dispatcher,
	}
	ctx := context.Background()

	in, err := service.Record(ctx, adaMatch(), "kiosk_1", onDay("09:15:00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Type != entities.ClockIn || !in.IsLate {
		t.Fatalf("expected a late clock-in, got %+v", in)
	}
	if in.DetectedName != "Ada Obi" || in.DeviceID != "kiosk_1" {
		t.Fatalf("event must carry match identity and device, got %+v", in)
	}

	out, err := service.Record(ctx, adaMatch(), "kiosk_1", onDay("17:40:00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Type != entities.ClockOut || !out.IsOvertime {
		t.Fatalf("expected an overtime clock-out, got %+v", out)
	}

	third, err := service.Record(ctx, adaMatch(), "kiosk_1", onDay("18:00:00"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third != nil {
		t.Fatalf("a completed day must be a no-op, got %+v", third)
	}
	if len(store.saved) != 2 {
		t.Fatalf("expected exactly 2 persisted events, got %d", len(store.saved))
	}
	if len(dispatcher.events) != 2 {
		t.Fatalf("expected every persisted event dispatched, got %d", len(dispatcher.events))
	}
}

func TestServiceCountsDaysIndependently(t *testing.T) {
	store := &memoryEventStore{}
	service := &Service{Events: store, Shifts: fixedShiftSource{}}
	ctx := context.Background()

	if _, err := service.Record(ctx, adaMatch(), "kiosk_1", onDay("09:00:00"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Record(ctx, adaMatch(), "kiosk_1", onDay("17:00:00"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nextDay, err := service.Record(ctx, adaMatch(), "kiosk_1", onDay("09:00:00").AddDate(0, 0, 1), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nextDay == nil || nextDay.Type != entities.ClockIn {
		t.Fatalf("a new day must start over with a clock-in, got %+v", nextDay)
	}
}

func TestServiceRejectsAnAnonymousMatch(t *testing.T) {
	service := &Service{Events: &memoryEventStore{}, Shifts: fixedShiftSource{}}
	if _, err := service.Record(context.Background(), &matchertypes.MatchResult{}, "kiosk_1", time.Now(), nil); err == nil {
		t.Fatal("expected an error on a match without an identity")
	}
}
