package dto

import (
	"image"
	"time"

	"presenca.io/application/utils"
	facetypes "presenca.io/infrastructure/biometric/types"
)

type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BoxPayload struct {
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
}

type DetectionPayload struct {
	Box        BoxPayload     `json:"box"`
	Nose       PointPayload   `json:"nose"`
	LeftEye    []PointPayload `json:"leftEye"`
	RightEye   []PointPayload `json:"rightEye"`
	Confidence float64        `json:"confidence" validate:"min=0,max=1"`
	Descriptor []float64      `json:"descriptor"`
}

// ProcessCyclePayload is one pushed detection cycle. Detections may be
// empty; an empty-faced frame is itself a signal.
type ProcessCyclePayload struct {
	DeviceID   string             `json:"deviceID" validate:"required,max=100"`
	Image      string             `json:"image" validate:"required"`
	Detections []DetectionPayload `json:"detections"`
}

func (payload *ProcessCyclePayload) Frame() (*facetypes.Frame, error) {
	img, err := utils.DecodeBase64Image(payload.Image)
	if err != nil {
		return nil, err
	}
	return &facetypes.Frame{Image: img, CapturedAt: time.Now()}, nil
}

func (payload *ProcessCyclePayload) ParsedDetections() []facetypes.Detection {
	detections := make([]facetypes.Detection, 0, len(payload.Detections))
	for _, d := range payload.Detections {
		detections = append(detections, facetypes.Detection{
			Box:        image.Rect(d.Box.MinX, d.Box.MinY, d.Box.MaxX, d.Box.MaxY),
			Nose:       facetypes.Point{X: d.Nose.X, Y: d.Nose.Y},
			LeftEye:    parsePoints(d.LeftEye),
			RightEye:   parsePoints(d.RightEye),
			Confidence: d.Confidence,
			Descriptor: d.Descriptor,
		})
	}
	return detections
}

func parsePoints(points []PointPayload) []facetypes.Point {
	parsed := make([]facetypes.Point, 0, len(points))
	for _, p := range points {
		parsed = append(parsed, facetypes.Point{X: p.X, Y: p.Y})
	}
	return parsed
}

type RegisterDevicePayload struct {
	DeviceID             string  `json:"deviceID" validate:"required,max=100"`
	Label                string  `json:"label" validate:"required,max=200"`
	SpoofThreshold       float64 `json:"spoofThreshold" validate:"omitempty,spoof_threshold"`
	RemoteScoringEnabled bool    `json:"remoteScoringEnabled"`
}
