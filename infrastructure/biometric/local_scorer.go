package biometric

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"presenca.io/infrastructure/biometric/types"
)

const (
	textureGridSize   = 32
	frequencyGridSize = 64
	colorGridSize     = 16

	textureWeight   = 40.0
	frequencyWeight = 30.0
	colorWeight     = 30.0

	// mean |Laplacian| at which genuine skin micro-texture saturates
	textureSaturation = 15.0
	// high-frequency energy above this reads as moire / screen sub-pixels
	frequencyPenaltyKnee = 30.0
	// mean per-channel stddev of natural skin tones (0-1 channel scale)
	colorSaturation = 0.3

	faceScoreFlag = 70.0
)

// LocalFaceScorer computes the single-frame realness composite from
// texture sharpness, high-frequency content and colour-channel
// variance. It is a pure function of one frame and keeps no state.
type LocalFaceScorer struct{}

func NewLocalFaceScorer() *LocalFaceScorer {
	return &LocalFaceScorer{}
}

func (lfs *LocalFaceScorer) Score(frame *types.Frame) (*types.AntiSpoofScore, error) {
	texture, err := lfs.textureScore(frame)
	if err != nil {
		return nil, err
	}
	frequency, err := lfs.frequencyScore(frame)
	if err != nil {
		return nil, err
	}
	color, err := lfs.colorScore(frame)
	if err != nil {
		return nil, err
	}

	score := clamp(texture+frequency+color, 0, 100)
	return &types.AntiSpoofScore{
		Score: score,
		Details: types.ScoreDetails{
			Texture:   texture,
			Frequency: frequency,
			Color:     color,
		},
		IsFace: score > faceScoreFlag,
	}, nil
}

// textureScore measures skin micro-texture with a discrete Laplacian
// over a small grayscale grid. Flat printed or screen surfaces yield a
// near-zero response.
func (lfs *LocalFaceScorer) textureScore(frame *types.Frame) (float64, error) {
	grid, err := sampleGray(frame, textureGridSize)
	if err != nil {
		return 0, err
	}

	var sum float64
	var count int
	for y := 1; y < textureGridSize-1; y++ {
		for x := 1; x < textureGridSize-1; x++ {
			laplacian := 4*grid[y][x] - grid[y-1][x] - grid[y+1][x] - grid[y][x-1] - grid[y][x+1]
			sum += math.Abs(laplacian)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	mean := sum / float64(count)
	if mean >= textureSaturation {
		return textureWeight, nil
	}
	return mean / textureSaturation * textureWeight, nil
}

// frequencyScore approximates high-frequency energy as the mean local
// deviation from the 4-neighbour average. Unlike texture, an excess is
// penalised: moire and screen sub-pixel patterns overshoot what real
// skin produces.
func (lfs *LocalFaceScorer) frequencyScore(frame *types.Frame) (float64, error) {
	grid, err := sampleGray(frame, frequencyGridSize)
	if err != nil {
		return 0, err
	}

	var sum float64
	var count int
	for y := 1; y < frequencyGridSize-1; y++ {
		for x := 1; x < frequencyGridSize-1; x++ {
			neighbourAvg := (grid[y-1][x] + grid[y+1][x] + grid[y][x-1] + grid[y][x+1]) / 4
			sum += math.Abs(grid[y][x] - neighbourAvg)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	energy := sum / float64(count)
	if energy <= frequencyPenaltyKnee {
		return energy / frequencyPenaltyKnee * frequencyWeight, nil
	}
	return clamp(frequencyWeight-(energy-frequencyPenaltyKnee), 0, frequencyWeight), nil
}

// colorScore rewards natural skin-tone variance. Flat, colour-cast
// imagery typical of screen captures shows low combined channel
// deviation.
func (lfs *LocalFaceScorer) colorScore(frame *types.Frame) (float64, error) {
	grid, err := sampleRGB(frame, colorGridSize)
	if err != nil {
		return 0, err
	}

	channels := [3][]float64{}
	for _, row := range grid {
		for _, px := range row {
			for c := 0; c < 3; c++ {
				channels[c] = append(channels[c], px[c])
			}
		}
	}

	var combined float64
	for c := 0; c < 3; c++ {
		combined += stat.StdDev(channels[c], nil)
	}
	combined /= 3

	if combined >= colorSaturation {
		return colorWeight, nil
	}
	return combined / colorSaturation * colorWeight, nil
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
