package startup

import (
	"os"

	"presenca.io/application/controller"
	"presenca.io/application/services/kiosk"
	"presenca.io/application/usecases/attendance"
	"presenca.io/application/usecases/match"
	"presenca.io/infrastructure/biometric"
	"presenca.io/infrastructure/database"
	"presenca.io/infrastructure/database/connection/datastore"
	"presenca.io/infrastructure/logger"
	"presenca.io/infrastructure/matcher"
	messagequeue "presenca.io/infrastructure/message_queue"
)

// Used to start services such as loggers, databases and the gate
// pipeline wiring.
func StartServices() {
	logger.InitializeLogger()
	database.SetUpDatabase()
	biometric.InitialiseAntiSpoofService()
	matcher.InitialiseMatcherService(match.NewEmbeddedMatcher(match.StoreFinder{}))

	attendanceService := &attendance.Service{
		Events:             attendance.MongoEventStore{},
		Shifts:             attendance.EmployeeShiftSource{},
		Dispatcher:         messagequeue.QueueDispatcher{},
		KeepFrameSnapshots: os.Getenv("KEEP_FRAME_SNAPSHOTS") == "true",
	}
	controller.KioskService = kiosk.NewService(matcher.MatcherService, attendanceService)
}

// Used to clean up after services that have been shut down.
func CleanUpServices() {
	datastore.CleanUp()
}
