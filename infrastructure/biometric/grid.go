package biometric

import (
	"image"

	"github.com/pkg/errors"

	"presenca.io/infrastructure/biometric/types"
)

var ErrMalformedFrame = errors.New("frame has no decodable pixel data")

// sampleGray downsamples the frame to an n x n grayscale grid with
// values on a 0-255 scale. Nearest-neighbour sampling keeps the cost
// constant regardless of capture resolution.
func sampleGray(frame *types.Frame, n int) ([][]float64, error) {
	img, bounds, err := frameBounds(frame)
	if err != nil {
		return nil, err
	}

	grid := make([][]float64, n)
	for gy := 0; gy < n; gy++ {
		row := make([]float64, n)
		for gx := 0; gx < n; gx++ {
			x := bounds.Min.X + gx*bounds.Dx()/n
			y := bounds.Min.Y + gy*bounds.Dy()/n
			r, g, b, _ := img.At(x, y).RGBA()
			row[gx] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 256.0
		}
		grid[gy] = row
	}
	return grid, nil
}

// sampleRGB downsamples to an n x n grid of [r,g,b] triplets on a 0-1
// scale, the scale the colour-variance thresholds are tuned against.
func sampleRGB(frame *types.Frame, n int) ([][][3]float64, error) {
	img, bounds, err := frameBounds(frame)
	if err != nil {
		return nil, err
	}

	grid := make([][][3]float64, n)
	for gy := 0; gy < n; gy++ {
		row := make([][3]float64, n)
		for gx := 0; gx < n; gx++ {
			x := bounds.Min.X + gx*bounds.Dx()/n
			y := bounds.Min.Y + gy*bounds.Dy()/n
			r, g, b, _ := img.At(x, y).RGBA()
			row[gx] = [3]float64{
				float64(r) / 65535.0,
				float64(g) / 65535.0,
				float64(b) / 65535.0,
			}
		}
		grid[gy] = row
	}
	return grid, nil
}

func frameBounds(frame *types.Frame) (image.Image, image.Rectangle, error) {
	if frame == nil || frame.Image == nil {
		return nil, image.Rectangle{}, ErrMalformedFrame
	}
	bounds := frame.Image.Bounds()
	if bounds.Dx() < 2 || bounds.Dy() < 2 {
		return nil, image.Rectangle{}, errors.Wrap(ErrMalformedFrame, "frame too small to downsample")
	}
	return frame.Image, bounds, nil
}
