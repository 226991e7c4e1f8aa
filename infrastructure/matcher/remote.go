package matcher

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"presenca.io/infrastructure/logger"
	"presenca.io/infrastructure/matcher/types"
	"presenca.io/infrastructure/network"
)

// sentinel name the match service uses to ask for more samples
const requireMoreFramesSentinel = "RequireMoreFrames"

// RemoteMatcher forwards descriptors to the central match service. An
// outage here is terminal for the current confirmation attempt; the
// caller surfaces inability to verify instead of a false accept.
type RemoteMatcher struct {
	Network *network.NetworkController
}

type matchRequest struct {
	Descriptors [][]float64 `json:"descriptors"`
}

type matchResponse struct {
	Matched      bool    `json:"matched"`
	DetectedName string  `json:"detectedName"`
	EmployeeID   string  `json:"employeeID"`
	Distance     float64 `json:"distance"`
	Threshold    float64 `json:"threshold"`
}

func (rm *RemoteMatcher) Match(ctx context.Context, descriptors [][]float64) (*types.MatchResult, error) {
	response, statusCode, err := rm.Network.Post("/match", nil, matchRequest{Descriptors: descriptors})
	if err != nil {
		return nil, errors.Wrap(err, "match service unreachable")
	}
	if statusCode == nil || *statusCode != 200 {
		logger.Error("match service returned a non-200 status", logger.LoggerOptions{
			Key:  "status_code",
			Data: statusCode,
		})
		return nil, errors.New("match service returned a non-200 status")
	}

	var result matchResponse
	if err := json.Unmarshal(*response, &result); err != nil {
		return nil, errors.Wrap(err, "could not decode match service response")
	}

	if result.DetectedName == requireMoreFramesSentinel {
		return &types.MatchResult{Outcome: types.RequireMoreFrames, Threshold: result.Threshold}, nil
	}
	if !result.Matched {
		return &types.MatchResult{
			Outcome:   types.Unmatched,
			Distance:  result.Distance,
			Threshold: result.Threshold,
		}, nil
	}
	return &types.MatchResult{
		Outcome:    types.Matched,
		EmployeeID: result.EmployeeID,
		Name:       result.DetectedName,
		Distance:   result.Distance,
		Threshold:  result.Threshold,
	}, nil
}
