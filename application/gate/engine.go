package gate

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gonum.org/v1/gonum/stat"

	"presenca.io/application/utils"
	facetypes "presenca.io/infrastructure/biometric/types"
	"presenca.io/infrastructure/logger"
)

type State string

const (
	StateIdle              State = "idle"
	StateScanning          State = "scanning"
	StateSingleFaceStable  State = "single_face_stable"
	StateMultiFaceDetected State = "multi_face_detected"
	StateNoFaceDetected    State = "no_face_detected"
	StateMatching          State = "matching"
	StateSpoofWarning      State = "spoof_warning"
)

const (
	landmarkBufferCap = 12
	centerBufferCap   = 12
	frameBufferCap    = 8
	scoreBufferCap    = 6

	// detector confidence below this is treated as no usable face
	confidenceFloor = 0.8
	// consecutive empty detection cycles before the no-face warning fires
	noFaceWarnStreak   = 7
	noFaceWarnDuration = 2 * time.Second

	confirmCooldown = 5 * time.Second

	cooldownKey = "confirmation_cooldown"
	pendingKey  = "confirmation_pending"
	// safety valve in case a confirmation never completes
	pendingTTL = 30 * time.Second
)

type Config struct {
	SpoofThreshold float64 `validate:"omitempty,spoof_threshold"`
}

// Decision is the outcome of one detection cycle.
type Decision struct {
	State         State
	SpoofWarning  bool
	NoFaceWarning bool
	SmoothedScore float64
	Score         *facetypes.AntiSpoofScore
	Liveness      LivenessVerdict
	Temporal      TemporalVerdict

	// ShouldMatch is set on at most one cycle per stable presentation.
	// The caller owes a CompleteConfirmation call when it is.
	ShouldMatch bool
	Descriptor  []float64
}

// Engine fuses anti-spoof scoring, liveness and the static-image check
// into a per-cycle gating decision, and owns the rolling windows those
// checks read from. It is not safe for concurrent use; callers serialise
// cycles per device.
type Engine struct {
	cfg    Config
	scorer facetypes.FrameScorer

	landmarks *utils.RingBuffer[facetypes.LandmarkSample]
	centers   *utils.RingBuffer[facetypes.Point]
	frames    *utils.RingBuffer[*facetypes.Frame]
	scores    *utils.RingBuffer[float64]

	noFaceStreak    int
	noFaceWarnUntil time.Time
	transient       *gocache.Cache
	state           State
}

func NewEngine(cfg Config, scorer facetypes.FrameScorer) *Engine {
	if cfg.SpoofThreshold == 0 {
		cfg.SpoofThreshold = 60
	}
	return &Engine{
		cfg:       cfg,
		scorer:    scorer,
		landmarks: utils.NewRingBuffer[facetypes.LandmarkSample](landmarkBufferCap),
		centers:   utils.NewRingBuffer[facetypes.Point](centerBufferCap),
		frames:    utils.NewRingBuffer[*facetypes.Frame](frameBufferCap),
		scores:    utils.NewRingBuffer[float64](scoreBufferCap),
		transient: gocache.New(gocache.NoExpiration, time.Minute),
		state:     StateIdle,
	}
}

func (e *Engine) CurrentState() State {
	return e.state
}

// Evaluate runs one detection cycle against the rolling windows.
func (e *Engine) Evaluate(frame *facetypes.Frame, detections []facetypes.Detection, now time.Time) Decision {
	switch {
	case len(detections) == 0:
		return e.evaluateNoFace(now)
	case len(detections) > 1:
		e.noFaceStreak = 0
		e.clearWindows()
		e.state = StateMultiFaceDetected
		return Decision{State: e.state}
	}

	e.noFaceStreak = 0
	detection := detections[0]
	if detection.Confidence <= confidenceFloor {
		e.state = StateScanning
		return Decision{State: e.state}
	}

	e.landmarks.Push(detection.Sample())
	e.centers.Push(detection.Center())
	e.frames.Push(frame)

	temporal := CheckStaticImage(e.frames.Items(), e.landmarks.Items())
	if temporal.StaticImage {
		e.clearPendingConfirmation()
		e.state = StateSpoofWarning
		return Decision{State: e.state, SpoofWarning: true, Temporal: temporal}
	}

	score, err := e.scorer.Score(frame)
	if err != nil {
		logger.Error("anti-spoof scoring failed, skipping cycle", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
		e.state = StateScanning
		return Decision{State: e.state, Temporal: temporal}
	}
	e.scores.Push(score.Score)
	smoothed := stat.Mean(e.scores.Items(), nil)

	liveness := CheckLiveness(e.landmarks.Items(), e.centers.Items())

	// An under-filled liveness window passes through rather than blocks;
	// blocking needs a full window of evidence on both signals.
	blocked := !liveness.IsAlive &&
		liveness.Reason != ReasonNotEnoughFrames &&
		smoothed < e.cfg.SpoofThreshold
	if blocked {
		e.state = StateSpoofWarning
		return Decision{
			State:         e.state,
			SpoofWarning:  true,
			SmoothedScore: smoothed,
			Score:         score,
			Liveness:      liveness,
			Temporal:      temporal,
		}
	}

	decision := Decision{
		State:         StateSingleFaceStable,
		SmoothedScore: smoothed,
		Score:         score,
		Liveness:      liveness,
		Temporal:      temporal,
	}
	// matching waits for a full liveness window; a presentation is only
	// stable once both checks have had real evidence to chew on
	if e.landmarks.Len() >= livenessWindow && e.canConfirm() && len(detection.Descriptor) != 0 {
		e.transient.Set(pendingKey, true, pendingTTL)
		decision.ShouldMatch = true
		decision.Descriptor = detection.Descriptor
		decision.State = StateMatching
	}
	e.state = decision.State
	return decision
}

func (e *Engine) evaluateNoFace(now time.Time) Decision {
	e.noFaceStreak++
	e.clearWindows()
	e.state = StateNoFaceDetected

	if e.noFaceStreak >= noFaceWarnStreak && now.After(e.noFaceWarnUntil) {
		e.noFaceWarnUntil = now.Add(noFaceWarnDuration)
	}
	return Decision{
		State:         e.state,
		NoFaceWarning: now.Before(e.noFaceWarnUntil),
	}
}

// CompleteConfirmation releases the single-flight latch taken when a
// Decision carried ShouldMatch. A surfaced result, matched or not, arms
// the cooldown so the same presentation is not re-verified immediately;
// a silent abandon or transport failure leaves the gate free to retry
// on the next stable cycle.
func (e *Engine) CompleteConfirmation(surfaced bool, now time.Time) {
	e.transient.Delete(pendingKey)
	if surfaced {
		e.transient.Set(cooldownKey, now, confirmCooldown)
	}
}

func (e *Engine) canConfirm() bool {
	if _, pending := e.transient.Get(pendingKey); pending {
		return false
	}
	if _, cooling := e.transient.Get(cooldownKey); cooling {
		return false
	}
	return true
}

func (e *Engine) clearPendingConfirmation() {
	e.transient.Delete(pendingKey)
}

func (e *Engine) clearWindows() {
	e.landmarks.Clear()
	e.centers.Clear()
	e.frames.Clear()
}

// Reset returns the engine to its idle state, dropping every rolling
// window, the score history and any armed cooldown.
func (e *Engine) Reset() {
	e.clearWindows()
	e.scores.Clear()
	e.transient.Flush()
	e.noFaceStreak = 0
	e.noFaceWarnUntil = time.Time{}
	e.state = StateIdle
}
