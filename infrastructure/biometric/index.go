package biometric

import (
	"os"
	"strconv"
	"time"

	"presenca.io/infrastructure/biometric/types"
	"presenca.io/infrastructure/logger"
	"presenca.io/infrastructure/network"
)

var ScorerService types.FrameScorer

// Picks the frame-scoring strategy for this deployment. The remote
// detector is opt-in; everything falls back to local heuristics.
func InitialiseAntiSpoofService() {
	local := NewLocalFaceScorer()
	if os.Getenv("REMOTE_ANTISPOOF_ENABLED") != "true" {
		ScorerService = local
		logger.Info("anti-spoof service initialised with local scoring")
		return
	}

	threshold, err := strconv.ParseFloat(os.Getenv("ANTISPOOF_THRESHOLD"), 64)
	if err != nil {
		threshold = 60
	}

	ScorerService = &RemoteFaceScorer{
		Network: &network.NetworkController{
			BaseUrl: os.Getenv("REMOTE_ANTISPOOF_BASE_URL"),
			Timeout: 5 * time.Second,
		},
		Fallback:  local,
		Threshold: threshold,
	}
	logger.Info("anti-spoof service initialised with remote scoring", logger.LoggerOptions{
		Key:  "base_url",
		Data: os.Getenv("REMOTE_ANTISPOOF_BASE_URL"),
	})
}
