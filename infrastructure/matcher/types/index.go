package types

import "context"

type MatchOutcome string

const (
	// the nearest stored embedding is within the distance threshold
	Matched MatchOutcome = "matched"
	// no stored embedding is close enough
	Unmatched MatchOutcome = "unmatched"
	// the sample set is too ambiguous to decide; the caller should
	// collect more descriptors and retry
	RequireMoreFrames MatchOutcome = "require_more_frames"
)

// MatchResult is the discriminated outcome of one matcher round-trip.
// Distance is an opaque smaller-is-closer scalar owned by the embedding
// model; Threshold is reported back for operator diagnosis.
type MatchResult struct {
	Outcome    MatchOutcome `json:"outcome"`
	EmployeeID string       `json:"employeeID"`
	Name       string       `json:"detectedName"`
	Distance   float64      `json:"distance"`
	Threshold  float64      `json:"threshold"`
}

// MatcherService resolves one or more face descriptors to an enrolled
// identity. Implementations: the embedded nearest-neighbour matcher and
// the remote HTTP matcher.
type MatcherService interface {
	Match(ctx context.Context, descriptors [][]float64) (*MatchResult, error)
}
