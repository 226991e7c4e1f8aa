package gate

import (
	"context"
	"time"

	matchertypes "presenca.io/infrastructure/matcher/types"
)

// DescriptorSource supplies additional face descriptors when the matcher
// asks for more evidence mid-confirmation. A nil descriptor with a nil
// error means the current frame had no usable single face; the burst
// simply collects fewer samples.
type DescriptorSource interface {
	NextDescriptor(ctx context.Context) ([]float64, error)
}

type ConfirmOptions struct {
	MaxRetries    int
	BurstSize     int
	SampleSpacing time.Duration
}

func DefaultConfirmOptions() ConfirmOptions {
	return ConfirmOptions{
		MaxRetries:    2,
		BurstSize:     6,
		SampleSpacing: 220 * time.Millisecond,
	}
}

// RunConfirmation drives the identity-match retry protocol. The first
// attempt goes out with the single descriptor the gate captured; each
// time the matcher answers RequireMoreFrames a burst of extra samples is
// collected and the accumulated set resubmitted, at most MaxRetries
// times. A still-inconclusive outcome after the last retry is abandoned
// silently, returning (nil, nil), so the subject never sees a rejection
// the matcher was not sure about. Transport errors are terminal.
func RunConfirmation(ctx context.Context, matcher matchertypes.MatcherService, initial []float64, source DescriptorSource, opts ConfirmOptions) (*matchertypes.MatchResult, error) {
	descriptors := [][]float64{initial}

	result, err := matcher.Match(ctx, descriptors)
	if err != nil {
		return nil, err
	}

	for retry := 0; result.Outcome == matchertypes.RequireMoreFrames && retry < opts.MaxRetries; retry++ {
		burst, err := collectBurst(ctx, source, opts)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, burst...)

		result, err = matcher.Match(ctx, descriptors)
		if err != nil {
			return nil, err
		}
	}

	if result.Outcome == matchertypes.RequireMoreFrames {
		return nil, nil
	}
	return result, nil
}

func collectBurst(ctx context.Context, source DescriptorSource, opts ConfirmOptions) ([][]float64, error) {
	burst := make([][]float64, 0, opts.BurstSize)
	for i := 0; i < opts.BurstSize; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.SampleSpacing):
		}

		descriptor, err := source.NextDescriptor(ctx)
		if err != nil {
			return nil, err
		}
		if descriptor != nil {
			burst = append(burst, descriptor)
		}
	}
	return burst, nil
}

// ConfirmationState carries the retry protocol across stateless request
// cycles for kiosks that push frames over HTTP instead of running a
// local capture loop. The kiosk keeps submitting frames; the service
// layer feeds descriptors in until a burst is complete, then retries the
// match with the accumulated set.
type ConfirmationState struct {
	descriptors  [][]float64
	retriesUsed  int
	burstPending int
	opts         ConfirmOptions
}

func NewConfirmationState(initial []float64, opts ConfirmOptions) *ConfirmationState {
	return &ConfirmationState{
		descriptors: [][]float64{initial},
		opts:        opts,
	}
}

func (cs *ConfirmationState) Descriptors() [][]float64 {
	return cs.descriptors
}

// Exhausted reports whether the retry budget is spent; the next
// inconclusive outcome must be abandoned rather than retried.
func (cs *ConfirmationState) Exhausted() bool {
	return cs.retriesUsed >= cs.opts.MaxRetries
}

// StartBurst opens a collection window for the next retry.
func (cs *ConfirmationState) StartBurst() {
	cs.retriesUsed++
	cs.burstPending = cs.opts.BurstSize
}

// Collecting reports whether the current burst still wants descriptors.
func (cs *ConfirmationState) Collecting() bool {
	return cs.burstPending > 0
}

// Add feeds one descriptor into the open burst. Frames without a usable
// face pass nil and still consume a collection slot, mirroring how a
// timed burst tolerates dud frames.
func (cs *ConfirmationState) Add(descriptor []float64) {
	if cs.burstPending == 0 {
		return
	}
	cs.burstPending--
	if descriptor != nil {
		cs.descriptors = append(cs.descriptors, descriptor)
	}
}
