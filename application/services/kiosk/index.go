package kiosk

import (
	"context"
	"sync"
	"time"

	"presenca.io/application/gate"
	"presenca.io/application/repository"
	"presenca.io/entities"
	"presenca.io/infrastructure/biometric"
	facetypes "presenca.io/infrastructure/biometric/types"
	"presenca.io/infrastructure/logger"
	matchertypes "presenca.io/infrastructure/matcher/types"
)

// CycleInput is one pushed detection cycle from a kiosk.
type CycleInput struct {
	DeviceID   string
	Frame      *facetypes.Frame
	Detections []facetypes.Detection
}

// CycleResponse tells the kiosk what to show and whether to keep
// pushing frames for an in-flight confirmation.
type CycleResponse struct {
	State             gate.State                  `json:"state"`
	SpoofWarning      bool                        `json:"spoofWarning"`
	NoFaceWarning     bool                        `json:"noFaceWarning"`
	SmoothedScore     float64                     `json:"smoothedScore"`
	RequestMoreFrames bool                        `json:"requestMoreFrames"`
	Match             *matchertypes.MatchResult   `json:"match,omitempty"`
	Event             *entities.AttendanceEvent   `json:"event,omitempty"`
	DayComplete       bool                        `json:"dayComplete"`
}

// deviceRuntime is the per-kiosk slice of gate state. Engines are not
// concurrency-safe, so each device serialises its own cycles.
type deviceRuntime struct {
	mu      sync.Mutex
	engine  *gate.Engine
	confirm *gate.ConfirmationState
}

// Service runs the gate for kiosks that push frames over HTTP instead
// of hosting a local capture loop. Each device gets its own engine,
// configured from its registered device record.
type Service struct {
	mu      sync.Mutex
	devices map[string]*deviceRuntime

	matcher  matchertypes.MatcherService
	recorder gate.AttendanceRecorder
	scorer   facetypes.FrameScorer
	configs  func(ctx context.Context, deviceID string) deviceSettings
}

// deviceSettings is the per-device gate tuning pulled from the kiosk
// registry.
type deviceSettings struct {
	cfg gate.Config
	// LocalScoringOnly pins the device to the local heuristics even
	// when the deployment default is the remote detector.
	localScoringOnly bool
}

func NewService(matcher matchertypes.MatcherService, recorder gate.AttendanceRecorder) *Service {
	return &Service{
		devices:  map[string]*deviceRuntime{},
		matcher:  matcher,
		recorder: recorder,
		scorer:   biometric.ScorerService,
		configs:  registeredDeviceSettings,
	}
}

// registeredDeviceSettings reads the device's gate settings from the
// kiosk registry; unregistered devices run on defaults.
func registeredDeviceSettings(ctx context.Context, deviceID string) deviceSettings {
	settings := deviceSettings{}
	device, err := repository.KioskDeviceRepo().FindOneByFilter(ctx, map[string]interface{}{
		"deviceID": deviceID,
	})
	if err == nil && device != nil {
		settings.cfg.SpoofThreshold = device.SpoofThreshold
		settings.localScoringOnly = !device.RemoteScoringEnabled
		go touchDevice(deviceID)
	} else {
		logger.Warning("kiosk device not registered, using default gate config", logger.LoggerOptions{
			Key:  "deviceID",
			Data: deviceID,
		})
	}
	return settings
}

func (s *Service) runtimeFor(ctx context.Context, deviceID string) *deviceRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()
	if runtime, exists := s.devices[deviceID]; exists {
		return runtime
	}

	settings := s.configs(ctx, deviceID)
	scorer := s.scorer
	if settings.localScoringOnly {
		scorer = biometric.NewLocalFaceScorer()
	}
	runtime := &deviceRuntime{engine: gate.NewEngine(settings.cfg, scorer)}
	s.devices[deviceID] = runtime
	return runtime
}

func touchDevice(deviceID string) {
	_, err := repository.KioskDeviceRepo().UpdatePartialByFilter(context.Background(), map[string]interface{}{
		"deviceID": deviceID,
	}, map[string]interface{}{
		"lastSeen": time.Now(),
	})
	if err != nil {
		logger.Warning("failed to update kiosk last-seen", logger.LoggerOptions{
			Key:  "deviceID",
			Data: deviceID,
		})
	}
}

// ProcessCycle runs one pushed frame through the device's gate. While a
// confirmation burst is open the frame feeds the burst instead of the
// gate, so the retry protocol sees a steady supply of descriptors.
func (s *Service) ProcessCycle(ctx context.Context, input CycleInput) (*CycleResponse, error) {
	runtime := s.runtimeFor(ctx, input.DeviceID)
	runtime.mu.Lock()
	defer runtime.mu.Unlock()

	if runtime.confirm != nil && runtime.confirm.Collecting() {
		runtime.confirm.Add(usableDescriptor(input.Detections))
		if runtime.confirm.Collecting() {
			return &CycleResponse{State: gate.StateMatching, RequestMoreFrames: true}, nil
		}
		return s.resolveMatch(ctx, runtime, input, runtime.confirm.Descriptors())
	}

	decision := runtime.engine.Evaluate(input.Frame, input.Detections, time.Now())
	response := &CycleResponse{
		State:         decision.State,
		SpoofWarning:  decision.SpoofWarning,
		NoFaceWarning: decision.NoFaceWarning,
		SmoothedScore: decision.SmoothedScore,
	}
	if !decision.ShouldMatch {
		return response, nil
	}

	runtime.confirm = gate.NewConfirmationState(decision.Descriptor, gate.DefaultConfirmOptions())
	return s.resolveMatch(ctx, runtime, input, runtime.confirm.Descriptors())
}

func (s *Service) resolveMatch(ctx context.Context, runtime *deviceRuntime, input CycleInput, descriptors [][]float64) (*CycleResponse, error) {
	result, err := s.matcher.Match(ctx, descriptors)
	if err != nil {
		runtime.confirm = nil
		runtime.engine.CompleteConfirmation(false, time.Now())
		return nil, err
	}

	switch result.Outcome {
	case matchertypes.RequireMoreFrames:
		if runtime.confirm.Exhausted() {
			// inconclusive after the retry budget; drop it silently
			runtime.confirm = nil
			runtime.engine.CompleteConfirmation(false, time.Now())
			return &CycleResponse{State: gate.StateScanning}, nil
		}
		runtime.confirm.StartBurst()
		return &CycleResponse{State: gate.StateMatching, RequestMoreFrames: true}, nil

	case matchertypes.Unmatched:
		runtime.confirm = nil
		runtime.engine.CompleteConfirmation(true, time.Now())
		return &CycleResponse{State: gate.StateSingleFaceStable, Match: result}, nil
	}

	runtime.confirm = nil
	runtime.engine.CompleteConfirmation(true, time.Now())
	event, err := s.recorder.Record(ctx, result, input.DeviceID, time.Now(), input.Frame)
	if err != nil {
		return nil, err
	}
	response := &CycleResponse{State: gate.StateSingleFaceStable, Match: result, Event: event}
	if event == nil || event.DayFinished {
		response.DayComplete = true
	}
	return response, nil
}

// ResetDevice drops a device's gate state, for enrolment flows and
// operator resets.
func (s *Service) ResetDevice(deviceID string) {
	s.mu.Lock()
	runtime, exists := s.devices[deviceID]
	s.mu.Unlock()
	if !exists {
		return
	}
	runtime.mu.Lock()
	defer runtime.mu.Unlock()
	runtime.confirm = nil
	runtime.engine.Reset()
}

func usableDescriptor(detections []facetypes.Detection) []float64 {
	if len(detections) != 1 || detections[0].Confidence <= 0.8 {
		return nil
	}
	return detections[0].Descriptor
}
