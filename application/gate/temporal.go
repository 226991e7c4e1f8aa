package gate

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"presenca.io/infrastructure/biometric"
	facetypes "presenca.io/infrastructure/biometric/types"
)

const (
	// minimum frames before the static-image check is meaningful
	temporalWindowMin = 4
	// mean inter-frame edge correlation above this reads as a frozen scene
	staticCorrelationThreshold = 0.96
	// landmark spread below this reads as no real facial motion
	staticLandmarkVarianceMax = 1.5
)

type TemporalVerdict struct {
	StaticImage      bool
	TemporalScore    float64
	LandmarkVariance float64
}

// CheckStaticImage flags a presented photograph by combining two signals
// that only fire together on a frozen scene: near-perfect inter-frame
// edge correlation and near-zero landmark spread. Either signal alone is
// not enough. A steady live subject keeps correlation high but landmarks
// still jitter; camera noise on a photo lowers correlation slightly but
// landmarks stay pinned. Short windows always pass through.
func CheckStaticImage(frames []*facetypes.Frame, landmarks []facetypes.LandmarkSample) TemporalVerdict {
	if len(frames) < temporalWindowMin || len(landmarks) < temporalWindowMin {
		return TemporalVerdict{StaticImage: false}
	}

	edgeMaps := make([][]float64, 0, len(frames))
	for _, frame := range frames {
		edges, err := biometric.EdgeMap(frame)
		if err != nil {
			continue
		}
		edgeMaps = append(edgeMaps, edges)
	}
	if len(edgeMaps) < temporalWindowMin {
		return TemporalVerdict{StaticImage: false}
	}

	similaritySum := 0.0
	for i := 1; i < len(edgeMaps); i++ {
		similaritySum += biometric.CosineSimilarity(edgeMaps[i-1], edgeMaps[i])
	}
	temporalScore := similaritySum / float64(len(edgeMaps)-1)
	landmarkVariance := landmarkSpread(landmarks)

	return TemporalVerdict{
		StaticImage:      temporalScore > staticCorrelationThreshold && landmarkVariance < staticLandmarkVarianceMax,
		TemporalScore:    temporalScore,
		LandmarkVariance: landmarkVariance,
	}
}

// landmarkSpread averages the per-coordinate standard deviation of the
// nose and eye-centroid tracks across the window.
func landmarkSpread(landmarks []facetypes.LandmarkSample) float64 {
	tracks := make([][]float64, 6)
	for i := range tracks {
		tracks[i] = make([]float64, 0, len(landmarks))
	}
	for _, sample := range landmarks {
		tracks[0] = append(tracks[0], sample.Nose.X)
		tracks[1] = append(tracks[1], sample.Nose.Y)
		tracks[2] = append(tracks[2], sample.LeftEye.X)
		tracks[3] = append(tracks[3], sample.LeftEye.Y)
		tracks[4] = append(tracks[4], sample.RightEye.X)
		tracks[5] = append(tracks[5], sample.RightEye.Y)
	}

	total := 0.0
	for _, track := range tracks {
		total += math.Sqrt(stat.Variance(track, nil))
	}
	return total / float64(len(tracks))
}
