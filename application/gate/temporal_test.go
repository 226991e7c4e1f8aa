package gate

import (
	"testing"

	facetypes "presenca.io/infrastructure/biometric/types"
)

func repeatedFrames(frame *facetypes.Frame, n int) []*facetypes.Frame {
	frames := make([]*facetypes.Frame, n)
	for i := range frames {
		frames[i] = frame
	}
	return frames
}

func TestCheckStaticImageFlagsFrozenScene(t *testing.T) {
	frames := repeatedFrames(noiseFrame(77), 6)
	landmarks, _ := stillSamples(6)

	verdict := CheckStaticImage(frames, landmarks)
	if !verdict.StaticImage {
		t.Fatalf("identical frames with pinned landmarks must flag static, score=%.4f variance=%.4f",
			verdict.TemporalScore, verdict.LandmarkVariance)
	}
	if verdict.TemporalScore <= staticCorrelationThreshold {
		t.Fatalf("identical frames should correlate near 1.0, got %.4f", verdict.TemporalScore)
	}
}

func TestCheckStaticImageShortWindowPassesThrough(t *testing.T) {
	frames := repeatedFrames(noiseFrame(77), temporalWindowMin-1)
	landmarks, _ := stillSamples(temporalWindowMin - 1)

	if CheckStaticImage(frames, landmarks).StaticImage {
		t.Fatal("a short window must never flag static")
	}
}

func TestCheckStaticImageLandmarkJitterClears(t *testing.T) {
	// frozen frames but a jittering landmark track, as when the detector
	// hunts on a hand-held photo; either signal alone must not flag
	frames := repeatedFrames(noiseFrame(77), 6)
	landmarks, _ := stillSamples(6)
	for i := range landmarks {
		offset := float64(i%2) * 8
		landmarks[i].Nose.X += offset
		landmarks[i].Nose.Y += offset
		landmarks[i].LeftEye.X += offset
		landmarks[i].LeftEye.Y += offset
		landmarks[i].RightEye.X += offset
		landmarks[i].RightEye.Y += offset
	}

	verdict := CheckStaticImage(frames, landmarks)
	if verdict.StaticImage {
		t.Fatalf("jittering landmarks must clear the static flag, variance=%.4f", verdict.LandmarkVariance)
	}
	if verdict.LandmarkVariance < staticLandmarkVarianceMax {
		t.Fatalf("expected landmark variance above %.1f, got %.4f", staticLandmarkVarianceMax, verdict.LandmarkVariance)
	}
}

func TestCheckStaticImageChangingFramesClear(t *testing.T) {
	frames := make([]*facetypes.Frame, 6)
	for i := range frames {
		frames[i] = noiseFrame(uint32(i)*2654435761 + 1)
	}
	landmarks, _ := stillSamples(6)

	verdict := CheckStaticImage(frames, landmarks)
	if verdict.StaticImage {
		t.Fatalf("independent frames must clear the static flag, score=%.4f", verdict.TemporalScore)
	}
}
