package match

import (
	"context"
	"testing"
	"time"

	"presenca.io/entities"
	matchertypes "presenca.io/infrastructure/matcher/types"
)

type listFinder struct {
	employees []entities.Employee
}

func (f listFinder) ActiveEmployees(ctx context.Context) ([]entities.Employee, error) {
	return f.employees, nil
}

func enrolled(id, first, last string, vectors ...[]float64) entities.Employee {
	samples := make([]entities.DescriptorSample, 0, len(vectors))
	for _, v := range vectors {
		samples = append(samples, entities.DescriptorSample{Vector: v, EnrolledAt: time.Now()})
	}
	return entities.Employee{ID: id, FirstName: first, LastName: last, Descriptors: samples}
}

func TestEmbeddedMatcherFindsTheNearestEmployee(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{employees: []entities.Employee{
		enrolled("emp_1", "Ada", "Obi", []float64{0, 0, 0}, []float64{0.1, 0, 0}),
		enrolled("emp_2", "Bayo", "Ade", []float64{5, 5, 5}),
	}})

	result, err := matcher.Match(context.Background(), [][]float64{{0.05, 0.02, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != matchertypes.Matched {
		t.Fatalf("expected matched, got %s (distance %.3f)", result.Outcome, result.Distance)
	}
	if result.EmployeeID != "emp_1" || result.Name != "Ada Obi" {
		t.Fatalf("matched the wrong employee: %s / %s", result.EmployeeID, result.Name)
	}
}

func TestEmbeddedMatcherRejectsAStranger(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{employees: []entities.Employee{
		enrolled("emp_1", "Ada", "Obi", []float64{0, 0, 0}),
	}})

	result, err := matcher.Match(context.Background(), [][]float64{{3, 3, 3}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != matchertypes.Unmatched {
		t.Fatalf("expected unmatched, got %s (distance %.3f)", result.Outcome, result.Distance)
	}
	if result.EmployeeID != "" {
		t.Fatal("an unmatched result must not carry an identity")
	}
}

func TestEmbeddedMatcherAsksForFramesInTheAmbiguousBand(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{employees: []entities.Employee{
		enrolled("emp_1", "Ada", "Obi", []float64{0, 0, 0}),
	}})

	// distance 0.65: past the 0.6 threshold but inside the 0.1 band
	result, err := matcher.Match(context.Background(), [][]float64{{0.65, 0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != matchertypes.RequireMoreFrames {
		t.Fatalf("expected require_more_frames, got %s (distance %.3f)", result.Outcome, result.Distance)
	}
}

func TestEmbeddedMatcherThresholdBoundaryIsStrict(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{employees: []entities.Employee{
		enrolled("emp_1", "Ada", "Obi", []float64{0, 0, 0}),
	}})

	// distance exactly 0.6: acceptance needs strictly below the threshold
	result, err := matcher.Match(context.Background(), [][]float64{{0.6, 0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != matchertypes.RequireMoreFrames {
		t.Fatalf("landing exactly on the threshold must not match, got %s (distance %.3f)", result.Outcome, result.Distance)
	}
}

func TestEmbeddedMatcherAsksForFramesWhenTwoEmployeesCompete(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{employees: []entities.Employee{
		enrolled("emp_1", "Ada", "Obi", []float64{0.2, 0, 0}),
		enrolled("emp_2", "Bayo", "Ade", []float64{0.22, 0, 0}),
	}})

	result, err := matcher.Match(context.Background(), [][]float64{{0.21, 0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != matchertypes.RequireMoreFrames {
		t.Fatalf("expected require_more_frames on crowded identities, got %s", result.Outcome)
	}
}

func TestEmbeddedMatcherMoreFramesResolveAmbiguity(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{employees: []entities.Employee{
		enrolled("emp_1", "Ada", "Obi", []float64{0, 0, 0}),
	}})

	// one off-angle sample alone is ambiguous; a set anchored near the
	// enrolled embedding pulls the average back under the threshold
	queries := [][]float64{{0.65, 0, 0}, {0.05, 0, 0}, {0.1, 0, 0}, {0.02, 0, 0}}
	result, err := matcher.Match(context.Background(), queries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != matchertypes.Matched {
		t.Fatalf("expected the fuller set to match, got %s (distance %.3f)", result.Outcome, result.Distance)
	}
}

func TestEmbeddedMatcherEmptyPopulationIsUnmatched(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{})
	result, err := matcher.Match(context.Background(), [][]float64{{0, 0, 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != matchertypes.Unmatched {
		t.Fatalf("expected unmatched with nobody enrolled, got %s", result.Outcome)
	}
}

func TestEmbeddedMatcherRejectsAnEmptyQuery(t *testing.T) {
	matcher := NewEmbeddedMatcher(listFinder{})
	if _, err := matcher.Match(context.Background(), nil); err == nil {
		t.Fatal("expected an error on an empty descriptor set")
	}
}
