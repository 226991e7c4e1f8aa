package gate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	facetypes "presenca.io/infrastructure/biometric/types"
)

const (
	// both movement proxies look at the most recent 5 samples
	livenessWindow = 5
	// vertical left/right eye offset that reads as blink asymmetry
	eyeAsymmetryThreshold = 0.5
	// stddev of the face-centre x track that reads as head movement
	headMovementThreshold = 0.3
)

const ReasonNotEnoughFrames = "not enough frames"

type LivenessVerdict struct {
	IsAlive bool
	Reason  string
}

// CheckLiveness derives an alive signal from eye-region and head-centroid
// micro-movement. One positive proxy is enough; demanding both would
// reject naturally still people. Under-filled buffers fail closed with
// ReasonNotEnoughFrames so the caller can treat the window as unproven
// rather than spoofed.
func CheckLiveness(landmarks []facetypes.LandmarkSample, centers []facetypes.Point) LivenessVerdict {
	if len(landmarks) < livenessWindow || len(centers) < livenessWindow {
		return LivenessVerdict{IsAlive: false, Reason: ReasonNotEnoughFrames}
	}

	recentLandmarks := landmarks[len(landmarks)-livenessWindow:]
	recentCenters := centers[len(centers)-livenessWindow:]

	eyeMovement := 0
	for _, sample := range recentLandmarks {
		if math.Abs(sample.LeftEye.Y-sample.RightEye.Y) > eyeAsymmetryThreshold {
			eyeMovement++
		}
	}
	if eyeMovement >= 1 {
		return LivenessVerdict{IsAlive: true}
	}

	xs := make([]float64, 0, livenessWindow)
	for _, center := range recentCenters {
		xs = append(xs, center.X)
	}
	if math.Sqrt(stat.Variance(xs, nil)) > headMovementThreshold {
		return LivenessVerdict{IsAlive: true}
	}

	return LivenessVerdict{IsAlive: false, Reason: "no eye or head movement detected"}
}
