package attendance

import (
	"time"

	"presenca.io/entities"
)

// dayBounds returns the local calendar day containing ts.
func dayBounds(ts time.Time) (time.Time, time.Time) {
	start := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	return start, start.AddDate(0, 0, 1)
}

// DeriveEvent decides what a confirmed identity at ts means for the
// workday: the first event of the day is an IN, the second an OUT, and
// a third confirmation is a completed day and derives nothing. Shift
// flags are computed against the shift anchored to ts's calendar day;
// a nil shift records a clean event with no flags.
//
// Lateness is strict: arriving exactly at start plus grace is on time.
// Overtime only flags once the stay past shift end exceeds the
// configured threshold, and then reports the full minutes past end.
func DeriveEvent(priorEvents int64, shift *entities.Shift, ts time.Time) *entities.AttendanceEvent {
	if priorEvents >= 2 {
		return nil
	}

	event := &entities.AttendanceEvent{Timestamp: ts}
	if priorEvents == 0 {
		event.Type = entities.ClockIn
	} else {
		event.Type = entities.ClockOut
		event.DayFinished = true
	}
	if shift == nil {
		return event
	}

	switch event.Type {
	case entities.ClockIn:
		deadline := shift.StartOn(ts).Add(time.Duration(shift.GraceMinutes) * time.Minute)
		event.IsLate = ts.After(deadline)
	case entities.ClockOut:
		end := shift.EndOn(ts)
		event.IsEarlyLeave = ts.Before(end)
		if ts.After(end.Add(time.Duration(shift.OvertimeThresholdMinutes) * time.Minute)) {
			event.IsOvertime = true
			event.OvertimeMinutes = int(ts.Sub(end).Minutes())
		}
	}
	return event
}
