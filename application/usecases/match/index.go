package match

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"presenca.io/entities"
	"presenca.io/infrastructure/logger"
	matchertypes "presenca.io/infrastructure/matcher/types"
)

const (
	// Euclidean distance strictly under this is a confident identity
	defaultDistanceThreshold = 0.6
	// a nearest hit this far past the threshold is a confident stranger;
	// the band in between is ambiguous and asks for more frames
	ambiguityBand = 0.1
	// the runner-up identity must be at least this much farther than the
	// winner, otherwise two enrolled people are competing for the frames
	separationMargin = 0.05
)

// EmployeeFinder supplies the enrolled population. The production
// implementation reads the employee collection; tests hand in a list.
type EmployeeFinder interface {
	ActiveEmployees(ctx context.Context) ([]entities.Employee, error)
}

// EmbeddedMatcher resolves descriptors against enrolled embeddings
// in-process, nearest neighbour by Euclidean distance. Per employee the
// distance is the best enrolled sample, averaged over every query
// descriptor, so one off-angle query frame cannot sink a good set.
type EmbeddedMatcher struct {
	Finder    EmployeeFinder
	Threshold float64
}

func NewEmbeddedMatcher(finder EmployeeFinder) *EmbeddedMatcher {
	return &EmbeddedMatcher{Finder: finder, Threshold: defaultDistanceThreshold}
}

func (m *EmbeddedMatcher) Match(ctx context.Context, descriptors [][]float64) (*matchertypes.MatchResult, error) {
	if len(descriptors) == 0 {
		return nil, errors.New("no descriptors to match")
	}
	employees, err := m.Finder.ActiveEmployees(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading enrolled employees")
	}

	best, runnerUp := math.Inf(1), math.Inf(1)
	var bestEmployee *entities.Employee
	for i := range employees {
		employee := &employees[i]
		if len(employee.Descriptors) == 0 {
			continue
		}
		distance := averageDistance(descriptors, employee.Descriptors)
		if distance < best {
			runnerUp = best
			best = distance
			bestEmployee = employee
		} else if distance < runnerUp {
			runnerUp = distance
		}
	}

	threshold := m.Threshold
	if threshold == 0 {
		threshold = defaultDistanceThreshold
	}

	if bestEmployee == nil || best > threshold+ambiguityBand {
		return &matchertypes.MatchResult{
			Outcome:   matchertypes.Unmatched,
			Distance:  best,
			Threshold: threshold,
		}, nil
	}

	// acceptance is strictly below the threshold; landing exactly on it
	// is ambiguous and asks for more frames
	crowded := runnerUp-best < separationMargin
	if best >= threshold || crowded {
		logger.Info("inconclusive match, requesting more frames", logger.LoggerOptions{
			Key:  "distance",
			Data: best,
		}, logger.LoggerOptions{
			Key:  "separation",
			Data: runnerUp - best,
		})
		return &matchertypes.MatchResult{
			Outcome:   matchertypes.RequireMoreFrames,
			Distance:  best,
			Threshold: threshold,
		}, nil
	}

	return &matchertypes.MatchResult{
		Outcome:    matchertypes.Matched,
		EmployeeID: bestEmployee.ID,
		Name:       bestEmployee.FullName(),
		Distance:   best,
		Threshold:  threshold,
	}, nil
}

// averageDistance scores one employee against the query set: per query
// descriptor take the closest enrolled sample, then average.
func averageDistance(queries [][]float64, samples []entities.DescriptorSample) float64 {
	total := 0.0
	for _, query := range queries {
		nearest := math.Inf(1)
		for _, sample := range samples {
			if d := euclidean(query, sample.Vector); d < nearest {
				nearest = d
			}
		}
		total += nearest
	}
	return total / float64(len(queries))
}

func euclidean(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
