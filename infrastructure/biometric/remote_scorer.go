package biometric

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/jpeg"

	"presenca.io/infrastructure/biometric/types"
	"presenca.io/infrastructure/logger"
	"presenca.io/infrastructure/network"
)

// RemoteFaceScorer asks the server-side detector for an anti-spoof
// score computed on the full-resolution frame. Same scoring semantics
// as the local scorer; this is an operator-configurable trust upgrade.
// Any failure degrades to the local fallback, never to blocking the
// user.
type RemoteFaceScorer struct {
	Network   *network.NetworkController
	Fallback  types.FrameScorer
	Threshold float64
}

type remoteScoreRequest struct {
	Image     string  `json:"image"`
	Threshold float64 `json:"threshold"`
}

type remoteScoreResponse struct {
	Score      float64            `json:"score"`
	IsReal     bool               `json:"isReal"`
	Details    types.ScoreDetails `json:"details"`
	SpoofType  *string            `json:"spoofType"`
	Confidence float64            `json:"confidence"`
}

func (rfs *RemoteFaceScorer) Score(frame *types.Frame) (*types.AntiSpoofScore, error) {
	encoded, err := EncodeFrameBase64(frame)
	if err != nil {
		return nil, err
	}

	response, statusCode, err := rfs.Network.Post("/anti-spoof/analyze", nil, remoteScoreRequest{
		Image:     encoded,
		Threshold: rfs.Threshold,
	})
	if err != nil {
		logger.Warning("remote anti-spoof unreachable, falling back to local scoring", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return rfs.Fallback.Score(frame)
	}
	if statusCode == nil || *statusCode != 200 {
		logger.Warning("remote anti-spoof returned a non-200 status, falling back to local scoring", logger.LoggerOptions{
			Key:  "status_code",
			Data: statusCode,
		})
		return rfs.Fallback.Score(frame)
	}

	var result remoteScoreResponse
	if err := json.Unmarshal(*response, &result); err != nil {
		logger.Warning("could not decode remote anti-spoof response, falling back to local scoring", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return rfs.Fallback.Score(frame)
	}

	if result.SpoofType != nil {
		logger.Info("remote anti-spoof flagged a spoof type", logger.LoggerOptions{
			Key:  "spoof_type",
			Data: *result.SpoofType,
		}, logger.LoggerOptions{
			Key:  "confidence",
			Data: result.Confidence,
		})
	}

	score := clamp(result.Score, 0, 100)
	return &types.AntiSpoofScore{
		Score:   score,
		Details: result.Details,
		IsFace:  score > faceScoreFlag,
	}, nil
}

// EncodeFrameBase64 renders a frame as base64 JPEG, the interchange
// format for the remote scorer and for audit snapshots on events.
func EncodeFrameBase64(frame *types.Frame) (string, error) {
	if frame == nil || frame.Image == nil {
		return "", ErrMalformedFrame
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame.Image, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
