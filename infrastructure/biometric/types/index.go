package types

import (
	"image"
	"time"
)

// Frame is a single camera capture pushed through the gate. It only
// lives for one detection cycle unless a rolling buffer holds on to it.
type Frame struct {
	Image      image.Image
	CapturedAt time.Time
}

// Point in the signal extractor's coordinate space
type Point struct {
	X float64
	Y float64
}

// Detection is the signal extractor's output for one face in one frame:
// a bounding box, the tracked landmark points (nose tip plus six points
// per eye), a detection confidence in [0,1] and the face descriptor.
type Detection struct {
	Box        image.Rectangle
	Nose       Point
	LeftEye    []Point
	RightEye   []Point
	Confidence float64
	Descriptor []float64
}

// LandmarkSample is the per-cycle distillation of a detection's
// landmarks: the nose tip and the centroid of each eye's points.
type LandmarkSample struct {
	Nose     Point
	LeftEye  Point
	RightEye Point
}

// Sample folds the detection's landmarks into a LandmarkSample.
func (d *Detection) Sample() LandmarkSample {
	return LandmarkSample{
		Nose:     d.Nose,
		LeftEye:  centroid(d.LeftEye),
		RightEye: centroid(d.RightEye),
	}
}

// Center returns the centroid of the detection's bounding box.
func (d *Detection) Center() Point {
	return Point{
		X: float64(d.Box.Min.X) + float64(d.Box.Dx())/2,
		Y: float64(d.Box.Min.Y) + float64(d.Box.Dy())/2,
	}
}

func centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	return Point{X: sumX / float64(len(points)), Y: sumY / float64(len(points))}
}

type ScoreDetails struct {
	Texture   float64 `json:"texture"`
	Frequency float64 `json:"frequency"`
	Color     float64 `json:"color"`
}

// AntiSpoofScore is the 0-100 single-frame realness composite. IsFace
// is a static convenience flag; the gate fuses the smoothed numeric
// score with liveness evidence instead of trusting it.
type AntiSpoofScore struct {
	Score   float64      `json:"score"`
	Details ScoreDetails `json:"details"`
	IsFace  bool         `json:"is_face"`
}

// FrameScorer is the anti-spoof scoring contract. LocalFaceScorer and
// RemoteFaceScorer both implement it so the remote trust upgrade stays
// an operator toggle rather than a branch in the gate.
type FrameScorer interface {
	Score(frame *Frame) (*AntiSpoofScore, error)
}
