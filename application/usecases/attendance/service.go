package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"presenca.io/entities"
	"presenca.io/infrastructure/biometric"
	facetypes "presenca.io/infrastructure/biometric/types"
	"presenca.io/infrastructure/logger"
	matchertypes "presenca.io/infrastructure/matcher/types"
)

// EventStore persists and counts clock events.
type EventStore interface {
	CountForWindow(ctx context.Context, employeeID string, from, to time.Time) (int64, error)
	Save(ctx context.Context, event entities.AttendanceEvent) (*entities.AttendanceEvent, error)
}

// ShiftSource resolves the shift an employee is working. A nil shift
// with a nil error means no shift is assigned.
type ShiftSource interface {
	ShiftFor(ctx context.Context, employeeID string) (*entities.Shift, error)
}

// Dispatcher fans a recorded event out to downstream consumers, the
// live attendance stream and the payroll pipeline.
type Dispatcher interface {
	EventRecorded(event entities.AttendanceEvent) error
}

// Service turns confirmed identities into attendance events. It
// implements the gate's recorder contract.
type Service struct {
	Events     EventStore
	Shifts     ShiftSource
	Dispatcher Dispatcher
	// KeepFrameSnapshots attaches the confirming frame to the event for
	// audit review.
	KeepFrameSnapshots bool
}

// Record derives and persists the next event of the employee's day.
// A day that already holds an IN and an OUT returns (nil, nil); the
// confirmation is acknowledged but nothing changes.
func (s *Service) Record(ctx context.Context, match *matchertypes.MatchResult, deviceID string, ts time.Time, frame *facetypes.Frame) (*entities.AttendanceEvent, error) {
	if match == nil || match.EmployeeID == "" {
		return nil, errors.New("cannot record attendance without a confirmed identity")
	}

	dayStart, dayEnd := dayBounds(ts)
	priorEvents, err := s.Events.CountForWindow(ctx, match.EmployeeID, dayStart, dayEnd)
	if err != nil {
		return nil, errors.Wrap(err, "counting today's events")
	}

	shift, err := s.Shifts.ShiftFor(ctx, match.EmployeeID)
	if err != nil {
		// a broken shift lookup must not lose the punch; record unflagged
		logger.Warning("shift lookup failed, recording without shift flags", logger.LoggerOptions{
			Key:  "employeeID",
			Data: match.EmployeeID,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
		shift = nil
	}

	event := DeriveEvent(priorEvents, shift, ts)
	if event == nil {
		return nil, nil
	}

	event.EmployeeID = match.EmployeeID
	event.DetectedName = match.Name
	event.DeviceID = deviceID
	event.MatchDistance = match.Distance
	if s.KeepFrameSnapshots && frame != nil {
		if snapshot, err := biometric.EncodeFrameBase64(frame); err == nil {
			event.FrameImage = &snapshot
		}
	}

	saved, err := s.Events.Save(ctx, *event)
	if err != nil {
		return nil, errors.Wrap(err, "persisting attendance event")
	}

	if s.Dispatcher != nil {
		if err := s.Dispatcher.EventRecorded(*saved); err != nil {
			logger.Error("dispatching attendance event failed", logger.LoggerOptions{
				Key:  "eventID",
				Data: saved.ID,
			}, logger.LoggerOptions{
				Key:  "error",
				Data: err.Error(),
			})
		}
	}

	logger.Info("attendance event recorded", logger.LoggerOptions{
		Key:  "employeeID",
		Data: saved.EmployeeID,
	}, logger.LoggerOptions{
		Key:  "type",
		Data: string(saved.Type),
	}, logger.LoggerOptions{
		Key:  "deviceID",
		Data: deviceID,
	})
	return saved, nil
}
