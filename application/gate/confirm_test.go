package gate

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	matchertypes "presenca.io/infrastructure/matcher/types"
)

type scriptedMatcher struct {
	outcomes []matchertypes.MatchOutcome
	calls    int
	setSizes []int
}

func (m *scriptedMatcher) Match(ctx context.Context, descriptors [][]float64) (*matchertypes.MatchResult, error) {
	m.setSizes = append(m.setSizes, len(descriptors))
	outcome := m.outcomes[m.calls]
	m.calls++
	return &matchertypes.MatchResult{Outcome: outcome, EmployeeID: "emp_1", Name: "Ada"}, nil
}

type listSource struct {
	descriptors [][]float64
	next        int
}

func (s *listSource) NextDescriptor(ctx context.Context) ([]float64, error) {
	if s.next >= len(s.descriptors) {
		return nil, nil
	}
	d := s.descriptors[s.next]
	s.next++
	return d, nil
}

func fastOpts() ConfirmOptions {
	opts := DefaultConfirmOptions()
	opts.SampleSpacing = time.Millisecond
	return opts
}

func TestConfirmationAbandonsAfterRetryBudget(t *testing.T) {
	matcher := &scriptedMatcher{outcomes: []matchertypes.MatchOutcome{
		matchertypes.RequireMoreFrames,
		matchertypes.RequireMoreFrames,
		matchertypes.RequireMoreFrames,
	}}
	source := &listSource{descriptors: [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9}, {10}, {11}, {12}}}

	result, err := RunConfirmation(context.Background(), matcher, []float64{0}, source, fastOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("exhausted retries must abandon silently, got %+v", result)
	}
	if matcher.calls != 3 {
		t.Fatalf("expected initial attempt plus 2 retries, got %d calls", matcher.calls)
	}
}

func TestConfirmationResolvesOnRetry(t *testing.T) {
	matcher := &scriptedMatcher{outcomes: []matchertypes.MatchOutcome{
		matchertypes.RequireMoreFrames,
		matchertypes.Matched,
	}}
	source := &listSource{descriptors: [][]float64{{1}, {2}, {3}, nil, {5}, {6}}}

	result, err := RunConfirmation(context.Background(), matcher, []float64{0}, source, fastOpts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.Outcome != matchertypes.Matched {
		t.Fatalf("expected a matched result, got %+v", result)
	}
	if matcher.setSizes[0] != 1 {
		t.Fatalf("first attempt must carry the single gate descriptor, got %d", matcher.setSizes[0])
	}
	// 1 initial + 5 usable burst samples; the nil frame is dropped
	if matcher.setSizes[1] != 6 {
		t.Fatalf("retry must carry the accumulated set, got %d", matcher.setSizes[1])
	}
}

type failingMatcher struct{}

func (failingMatcher) Match(ctx context.Context, descriptors [][]float64) (*matchertypes.MatchResult, error) {
	return nil, errors.New("matcher unreachable")
}

func TestConfirmationMatcherErrorIsTerminal(t *testing.T) {
	result, err := RunConfirmation(context.Background(), failingMatcher{}, []float64{0}, &listSource{}, fastOpts())
	if err == nil {
		t.Fatal("expected the transport error to surface")
	}
	if result != nil {
		t.Fatalf("expected no result alongside the error, got %+v", result)
	}
}

func TestConfirmationStateBurstAccounting(t *testing.T) {
	state := NewConfirmationState([]float64{0}, DefaultConfirmOptions())
	if state.Exhausted() {
		t.Fatal("fresh state must have its retry budget intact")
	}
	if state.Collecting() {
		t.Fatal("no burst is open before StartBurst")
	}

	state.StartBurst()
	for i := 0; i < 6; i++ {
		if !state.Collecting() {
			t.Fatalf("burst closed after %d of 6 slots", i)
		}
		if i%2 == 0 {
			state.Add([]float64{float64(i)})
		} else {
			state.Add(nil)
		}
	}
	if state.Collecting() {
		t.Fatal("burst must close after its size is consumed")
	}
	// initial + 3 usable samples
	if len(state.Descriptors()) != 4 {
		t.Fatalf("expected 4 accumulated descriptors, got %d", len(state.Descriptors()))
	}

	state.StartBurst()
	if !state.Exhausted() {
		t.Fatal("two bursts must exhaust the retry budget")
	}
}
