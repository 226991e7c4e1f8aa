package gate

import (
	"testing"

	facetypes "presenca.io/infrastructure/biometric/types"
)

func stillSamples(n int) ([]facetypes.LandmarkSample, []facetypes.Point) {
	landmarks := make([]facetypes.LandmarkSample, n)
	centers := make([]facetypes.Point, n)
	for i := range landmarks {
		landmarks[i] = facetypes.LandmarkSample{
			Nose:     facetypes.Point{X: 50, Y: 55},
			LeftEye:  facetypes.Point{X: 35, Y: 40},
			RightEye: facetypes.Point{X: 65, Y: 40},
		}
		centers[i] = facetypes.Point{X: 50, Y: 50}
	}
	return landmarks, centers
}

func TestCheckLivenessUnderfilledFailsClosed(t *testing.T) {
	landmarks, centers := stillSamples(livenessWindow - 1)
	verdict := CheckLiveness(landmarks, centers)
	if verdict.IsAlive {
		t.Fatal("under-filled window must not report alive")
	}
	if verdict.Reason != ReasonNotEnoughFrames {
		t.Fatalf("expected %q, got %q", ReasonNotEnoughFrames, verdict.Reason)
	}
}

func TestCheckLivenessEyeAsymmetryReadsAlive(t *testing.T) {
	landmarks, centers := stillSamples(livenessWindow)
	// one blink-like sample in the window is enough
	landmarks[2].LeftEye.Y += 0.8
	verdict := CheckLiveness(landmarks, centers)
	if !verdict.IsAlive {
		t.Fatalf("expected alive on eye asymmetry, got reason %q", verdict.Reason)
	}
}

func TestCheckLivenessHeadDriftReadsAlive(t *testing.T) {
	landmarks, centers := stillSamples(livenessWindow)
	for i := range centers {
		centers[i].X = 50 + float64(i)
	}
	verdict := CheckLiveness(landmarks, centers)
	if !verdict.IsAlive {
		t.Fatalf("expected alive on head drift, got reason %q", verdict.Reason)
	}
}

func TestCheckLivenessStillnessReadsDead(t *testing.T) {
	landmarks, centers := stillSamples(livenessWindow + 3)
	verdict := CheckLiveness(landmarks, centers)
	if verdict.IsAlive {
		t.Fatal("a perfectly still track must not report alive")
	}
	if verdict.Reason == ReasonNotEnoughFrames {
		t.Fatal("a full window must carry a movement reason, not a size one")
	}
}

func TestCheckLivenessOnlyReadsTheRecentWindow(t *testing.T) {
	landmarks, centers := stillSamples(livenessWindow + 4)
	// movement that has already scrolled out of the window
	landmarks[0].LeftEye.Y += 5
	verdict := CheckLiveness(landmarks, centers)
	if verdict.IsAlive {
		t.Fatal("stale movement outside the window must not count")
	}
}
