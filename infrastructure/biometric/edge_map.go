package biometric

import (
	"math"

	"presenca.io/infrastructure/biometric/types"
)

const edgeMapGridSize = 24

// EdgeMap downsamples a frame and returns its flattened Laplacian
// magnitude map. Consecutive maps that correlate almost perfectly are
// the signature of a printed photo or paused video.
func EdgeMap(frame *types.Frame) ([]float64, error) {
	grid, err := sampleGray(frame, edgeMapGridSize)
	if err != nil {
		return nil, err
	}

	edges := make([]float64, 0, (edgeMapGridSize-2)*(edgeMapGridSize-2))
	for y := 1; y < edgeMapGridSize-1; y++ {
		for x := 1; x < edgeMapGridSize-1; x++ {
			laplacian := 4*grid[y][x] - grid[y-1][x] - grid[y+1][x] - grid[y][x-1] - grid[y][x+1]
			edges = append(edges, math.Abs(laplacian))
		}
	}
	return edges, nil
}

// CosineSimilarity is the normalised dot-product correlation between
// two edge maps. Two structureless maps count as identical.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 && normB == 0 {
		return 1
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
