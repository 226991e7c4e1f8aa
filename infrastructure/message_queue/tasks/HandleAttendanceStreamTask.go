package queue_tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"presenca.io/entities"
	eventstream "presenca.io/infrastructure/event_stream"
	"presenca.io/infrastructure/logger"
	mq_types "presenca.io/infrastructure/message_queue/types"
)

var HandleAttendanceStreamTaskName mq_types.Queues = "publish_attendance_event"

// HandleAttendanceStreamTask pushes a freshly recorded event onto the
// Kafka stream. Publishing rides the queue so a broker outage retries
// in the background instead of stalling a kiosk confirmation.
func HandleAttendanceStreamTask(ctx context.Context, t *asynq.Task) error {
	var event entities.AttendanceEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		logger.Error("an error occured while unmarshalling attendance stream payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}

	if err := eventstream.GetProducer().Publish(event); err != nil {
		logger.Error("failed to publish attendance event to stream", logger.LoggerOptions{
			Key:  "eventID",
			Data: event.ID,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	return nil
}
