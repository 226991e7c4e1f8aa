package gate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"presenca.io/entities"
	facetypes "presenca.io/infrastructure/biometric/types"
	"presenca.io/infrastructure/logger"
	matchertypes "presenca.io/infrastructure/matcher/types"
)

const detectionInterval = 300 * time.Millisecond

// SignalExtractor is the camera-side contract: one call returns the
// current frame and every face detected in it. Errors are fatal to the
// session; a dead camera cannot be retried from here.
type SignalExtractor interface {
	Capture(ctx context.Context) (*facetypes.Frame, []facetypes.Detection, error)
}

// AttendanceRecorder turns a confirmed identity into an attendance
// event. A (nil, nil) return means the employee already completed the
// day and nothing was recorded.
type AttendanceRecorder interface {
	Record(ctx context.Context, match *matchertypes.MatchResult, deviceID string, ts time.Time, frame *facetypes.Frame) (*entities.AttendanceEvent, error)
}

type OutcomeKind string

const (
	OutcomeMatched       OutcomeKind = "matched"
	OutcomeUnmatched     OutcomeKind = "unmatched"
	OutcomeDayComplete   OutcomeKind = "day_complete"
	OutcomeSpoofWarning  OutcomeKind = "spoof_warning"
	OutcomeNoFaceWarning OutcomeKind = "no_face_warning"
	OutcomeVerifyFailed  OutcomeKind = "verify_failed"
)

// SessionOutcome is what a session surfaces to its observer, typically
// the kiosk UI feed.
type SessionOutcome struct {
	Kind  OutcomeKind
	Match *matchertypes.MatchResult
	Event *entities.AttendanceEvent
}

// Session runs the full gate loop for one kiosk camera: capture on a
// fixed cadence, gate each cycle through the engine, and when the gate
// opens drive the confirmation protocol and record attendance.
type Session struct {
	ID       string
	DeviceID string

	engine    *Engine
	extractor SignalExtractor
	matcher   matchertypes.MatcherService
	recorder  AttendanceRecorder
	opts      ConfirmOptions

	// OnOutcome, when set, receives user-visible outcomes. It is called
	// from the session goroutine and must not block.
	OnOutcome func(SessionOutcome)

	inFlight atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewSession(deviceID string, engine *Engine, extractor SignalExtractor, matcher matchertypes.MatcherService, recorder AttendanceRecorder) *Session {
	return &Session{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		engine:    engine,
		extractor: extractor,
		matcher:   matcher,
		recorder:  recorder,
		opts:      DefaultConfirmOptions(),
		stopCh:    make(chan struct{}),
	}
}

// Run blocks until the context is cancelled, Stop is called or the
// signal extractor fails. Cycles are strictly non-reentrant; a cycle
// still confirming when the next tick lands makes that tick a no-op,
// so a slow matcher stretches the cadence instead of stacking work.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(detectionInterval)
	defer ticker.Stop()
	defer s.engine.Reset()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			if !s.inFlight.CompareAndSwap(false, true) {
				continue
			}
			err := s.cycle(ctx)
			s.inFlight.Store(false)
			if err != nil {
				return err
			}
		}
	}
}

func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

func (s *Session) cycle(ctx context.Context) error {
	frame, detections, err := s.extractor.Capture(ctx)
	if err != nil {
		return errors.Wrap(err, "signal extractor failed")
	}

	now := time.Now()
	decision := s.engine.Evaluate(frame, detections, now)

	if decision.SpoofWarning {
		s.emit(SessionOutcome{Kind: OutcomeSpoofWarning})
	}
	if decision.NoFaceWarning {
		s.emit(SessionOutcome{Kind: OutcomeNoFaceWarning})
	}
	if !decision.ShouldMatch {
		return nil
	}

	result, err := RunConfirmation(ctx, s.matcher, decision.Descriptor, sessionDescriptorSource{s}, s.opts)
	if err != nil {
		logger.Error("identity confirmation failed", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		}, logger.LoggerOptions{
			Key:  "deviceID",
			Data: s.DeviceID,
		})
		s.engine.CompleteConfirmation(false, time.Now())
		s.emit(SessionOutcome{Kind: OutcomeVerifyFailed})
		return nil
	}
	if result == nil {
		// inconclusive after the retry budget; abandoned without a word
		s.engine.CompleteConfirmation(false, time.Now())
		return nil
	}

	s.engine.CompleteConfirmation(true, time.Now())
	if result.Outcome != matchertypes.Matched {
		s.emit(SessionOutcome{Kind: OutcomeUnmatched, Match: result})
		return nil
	}

	event, err := s.recorder.Record(ctx, result, s.DeviceID, now, frame)
	if err != nil {
		logger.Error("recording attendance failed", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		}, logger.LoggerOptions{
			Key:  "employeeID",
			Data: result.EmployeeID,
		})
		s.emit(SessionOutcome{Kind: OutcomeVerifyFailed, Match: result})
		return nil
	}
	if event == nil {
		s.emit(SessionOutcome{Kind: OutcomeDayComplete, Match: result})
		return nil
	}
	s.emit(SessionOutcome{Kind: OutcomeMatched, Match: result, Event: event})
	return nil
}

func (s *Session) emit(outcome SessionOutcome) {
	if s.OnOutcome != nil {
		s.OnOutcome(outcome)
	}
}

// sessionDescriptorSource feeds confirmation bursts from live captures.
// Frames without exactly one confident face yield a nil descriptor.
type sessionDescriptorSource struct {
	session *Session
}

func (src sessionDescriptorSource) NextDescriptor(ctx context.Context) ([]float64, error) {
	_, detections, err := src.session.extractor.Capture(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "signal extractor failed mid-confirmation")
	}
	if len(detections) != 1 || detections[0].Confidence <= confidenceFloor {
		return nil, nil
	}
	return detections[0].Descriptor, nil
}
