package biometric

import (
	"math"
	"testing"
)

func TestIdenticalFramesCorrelatePerfectly(t *testing.T) {
	frame := noiseFrame(42)

	a, err := EdgeMap(frame)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EdgeMap(frame)
	if err != nil {
		t.Fatal(err)
	}

	similarity := CosineSimilarity(a, b)
	if math.Abs(similarity-1.0) > 1e-9 {
		t.Errorf("identical frames should correlate at 1.0, got %f", similarity)
	}
}

func TestDifferentFramesCorrelateBelowStaticThreshold(t *testing.T) {
	a, err := EdgeMap(noiseFrame(1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := EdgeMap(noiseFrame(2))
	if err != nil {
		t.Fatal(err)
	}

	similarity := CosineSimilarity(a, b)
	if similarity > 0.96 {
		t.Errorf("independent noise frames should not look static, got %f", similarity)
	}
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	if got := CosineSimilarity([]float64{1, 2}, []float64{1}); got != 0 {
		t.Errorf("mismatched lengths should yield 0, got %f", got)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Errorf("empty maps should yield 0, got %f", got)
	}
	if got := CosineSimilarity([]float64{0, 0}, []float64{0, 0}); got != 1 {
		t.Errorf("two structureless maps are identical, expected 1, got %f", got)
	}
	if got := CosineSimilarity([]float64{0, 0}, []float64{1, 1}); got != 0 {
		t.Errorf("structureless vs structured should yield 0, got %f", got)
	}
}
