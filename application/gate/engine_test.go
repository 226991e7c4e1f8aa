package gate

import (
	"image"
	"testing"
	"time"

	facetypes "presenca.io/infrastructure/biometric/types"
)

type fixedScorer struct {
	score float64
}

func (s fixedScorer) Score(frame *facetypes.Frame) (*facetypes.AntiSpoofScore, error) {
	return &facetypes.AntiSpoofScore{Score: s.score, IsFace: s.score >= 70}, nil
}

func noiseFrame(seed uint32) *facetypes.Frame {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	state := seed
	for i := range img.Pix {
		state = state*1664525 + 1013904223
		img.Pix[i] = uint8(state >> 24)
	}
	return &facetypes.Frame{Image: img, CapturedAt: time.Now()}
}

// jitterDetection carries enough eye asymmetry on odd cycles to read as
// blinking.
func jitterDetection(cycle int) facetypes.Detection {
	leftY := 40.0
	if cycle%2 == 1 {
		leftY = 41.0
	}
	return facetypes.Detection{
		Box:        image.Rect(10, 10, 90, 90),
		Nose:       facetypes.Point{X: 50, Y: 55},
		LeftEye:    []facetypes.Point{{X: 35, Y: leftY}},
		RightEye:   []facetypes.Point{{X: 65, Y: 40}},
		Confidence: 0.95,
		Descriptor: []float64{0.1, 0.2, 0.3},
	}
}

// pinnedDetection never moves, like a printed photo on a stick.
func pinnedDetection() facetypes.Detection {
	return facetypes.Detection{
		Box:        image.Rect(10, 10, 90, 90),
		Nose:       facetypes.Point{X: 50, Y: 55},
		LeftEye:    []facetypes.Point{{X: 35, Y: 40}},
		RightEye:   []facetypes.Point{{X: 65, Y: 40}},
		Confidence: 0.95,
		Descriptor: []float64{0.1, 0.2, 0.3},
	}
}

func TestEngineMatchesOncePerStablePresentation(t *testing.T) {
	engine := NewEngine(Config{}, fixedScorer{score: 85})
	now := time.Now()

	matchCycles := 0
	for i := 0; i < 8; i++ {
		decision := engine.Evaluate(noiseFrame(uint32(i)*7919+1), []facetypes.Detection{jitterDetection(i)}, now)
		if decision.SpoofWarning {
			t.Fatalf("cycle %d: unexpected spoof warning", i)
		}
		if decision.ShouldMatch {
			matchCycles++
			if i < livenessWindow-1 {
				t.Fatalf("cycle %d: matched before the liveness window filled", i)
			}
		}
		now = now.Add(detectionInterval)
	}
	if matchCycles != 1 {
		t.Fatalf("expected exactly 1 match request while confirmation pending, got %d", matchCycles)
	}

	// a surfaced result arms the cooldown
	engine.CompleteConfirmation(true, now)
	for i := 8; i < 12; i++ {
		decision := engine.Evaluate(noiseFrame(uint32(i)*7919+1), []facetypes.Detection{jitterDetection(i)}, now)
		if decision.ShouldMatch {
			t.Fatalf("cycle %d: matched again inside the cooldown", i)
		}
		now = now.Add(detectionInterval)
	}
}

func TestEngineStaticPhotoNeverMatches(t *testing.T) {
	engine := NewEngine(Config{}, fixedScorer{score: 85})
	frame := noiseFrame(42)
	now := time.Now()

	sawSpoofWarning := false
	for i := 0; i < 12; i++ {
		decision := engine.Evaluate(frame, []facetypes.Detection{pinnedDetection()}, now)
		if decision.ShouldMatch {
			t.Fatalf("cycle %d: static photo reached the matcher", i)
		}
		if decision.SpoofWarning {
			sawSpoofWarning = true
			if !decision.Temporal.StaticImage {
				t.Fatalf("cycle %d: spoof warning without the static flag", i)
			}
		}
		now = now.Add(detectionInterval)
	}
	if !sawSpoofWarning {
		t.Fatal("static photo never raised a spoof warning")
	}
}

func TestEngineMultiFaceClearsTheWindows(t *testing.T) {
	engine := NewEngine(Config{}, fixedScorer{score: 85})
	now := time.Now()

	for i := 0; i < 3; i++ {
		engine.Evaluate(noiseFrame(uint32(i)+100), []facetypes.Detection{jitterDetection(i)}, now)
		now = now.Add(detectionInterval)
	}

	crowd := []facetypes.Detection{jitterDetection(3), pinnedDetection()}
	decision := engine.Evaluate(noiseFrame(103), crowd, now)
	if decision.State != StateMultiFaceDetected {
		t.Fatalf("expected multi_face_detected, got %s", decision.State)
	}
	if decision.ShouldMatch {
		t.Fatal("multi-face frame must never request a match")
	}
	now = now.Add(detectionInterval)

	// the window restarts from empty; four more cycles are not enough
	for i := 4; i < 8; i++ {
		decision = engine.Evaluate(noiseFrame(uint32(i)+100), []facetypes.Detection{jitterDetection(i)}, now)
		if decision.ShouldMatch {
			t.Fatalf("cycle %d after reset: matched on a part-filled window", i)
		}
		now = now.Add(detectionInterval)
	}
	decision = engine.Evaluate(noiseFrame(108), []facetypes.Detection{jitterDetection(8)}, now)
	if !decision.ShouldMatch {
		t.Fatal("expected a match request once the window refilled")
	}
}

func TestEngineLowScoreWithoutMovementBlocks(t *testing.T) {
	engine := NewEngine(Config{}, fixedScorer{score: 30})
	now := time.Now()

	for i := 0; i < 4; i++ {
		decision := engine.Evaluate(noiseFrame(uint32(i)*31+7), []facetypes.Detection{pinnedDetection()}, now)
		if decision.SpoofWarning && !decision.Temporal.StaticImage {
			t.Fatalf("cycle %d: blocked on an under-filled liveness window", i)
		}
		now = now.Add(detectionInterval)
	}

	decision := engine.Evaluate(noiseFrame(999), []facetypes.Detection{pinnedDetection()}, now)
	if !decision.SpoofWarning {
		t.Fatal("expected a spoof warning: full window, no movement, low score")
	}
	if decision.ShouldMatch {
		t.Fatal("blocked presentation must not reach the matcher")
	}
}

func TestEngineHighScoreSurvivesStillness(t *testing.T) {
	engine := NewEngine(Config{}, fixedScorer{score: 85})
	now := time.Now()

	// pinned landmarks but unique frames: not static, not alive, but the
	// smoothed score clears the threshold so the gate stays open
	gateOpened := false
	for i := 0; i < 6; i++ {
		decision := engine.Evaluate(noiseFrame(uint32(i)*613+11), []facetypes.Detection{pinnedDetection()}, now)
		if decision.SpoofWarning {
			t.Fatalf("cycle %d: warned despite a high smoothed score", i)
		}
		if decision.ShouldMatch {
			gateOpened = true
		}
		now = now.Add(detectionInterval)
	}
	if !gateOpened {
		t.Fatal("expected the gate to open on a high smoothed score")
	}
}

func TestEngineNoFaceWarningNeedsAStreak(t *testing.T) {
	engine := NewEngine(Config{}, fixedScorer{score: 85})
	now := time.Now()

	for i := 0; i < noFaceWarnStreak-1; i++ {
		decision := engine.Evaluate(noiseFrame(1), nil, now)
		if decision.NoFaceWarning {
			t.Fatalf("cycle %d: warned before the streak threshold", i)
		}
		now = now.Add(detectionInterval)
	}
	decision := engine.Evaluate(noiseFrame(1), nil, now)
	if !decision.NoFaceWarning {
		t.Fatalf("expected a no-face warning on cycle %d", noFaceWarnStreak)
	}
	if decision.State != StateNoFaceDetected {
		t.Fatalf("expected no_face_detected, got %s", decision.State)
	}
}

func TestEngineIgnoresLowConfidenceDetections(t *testing.T) {
	engine := NewEngine(Config{}, fixedScorer{score: 85})
	weak := jitterDetection(0)
	weak.Confidence = 0.4

	decision := engine.Evaluate(noiseFrame(5), []facetypes.Detection{weak}, time.Now())
	if decision.State != StateScanning {
		t.Fatalf("expected scanning, got %s", decision.State)
	}
	if engine.landmarks.Len() != 0 {
		t.Fatal("low-confidence detection must not enter the landmark window")
	}
}
