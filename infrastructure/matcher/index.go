package matcher

import (
	"os"
	"time"

	"presenca.io/infrastructure/logger"
	"presenca.io/infrastructure/matcher/types"
	"presenca.io/infrastructure/network"
)

var MatcherService types.MatcherService

// Picks the matcher strategy. The embedded nearest-neighbour matcher is
// the default; MATCHER_MODE=remote delegates to the central service.
func InitialiseMatcherService(embedded types.MatcherService) {
	if os.Getenv("MATCHER_MODE") == "remote" {
		MatcherService = &RemoteMatcher{
			Network: &network.NetworkController{
				BaseUrl: os.Getenv("MATCH_SERVICE_BASE_URL"),
				Timeout: 8 * time.Second,
			},
		}
		logger.Info("matcher service initialised in remote mode", logger.LoggerOptions{
			Key:  "base_url",
			Data: os.Getenv("MATCH_SERVICE_BASE_URL"),
		})
		return
	}
	MatcherService = embedded
	logger.Info("matcher service initialised with the embedded index")
}
