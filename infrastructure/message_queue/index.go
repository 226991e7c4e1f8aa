package messagequeue

import (
	"encoding/json"

	"presenca.io/entities"
	"presenca.io/infrastructure/logger"
	"presenca.io/infrastructure/message_queue/asynq"
	queue_tasks "presenca.io/infrastructure/message_queue/tasks"
	mq_types "presenca.io/infrastructure/message_queue/types"
)

var TaskQueue mq_types.TaskQueueBroker = &asynq.AsynqBroker{}

func StartQueue() {
	TaskQueue.Start()
}

// QueueDispatcher fans recorded attendance events out through the task
// queue: one task streams the event, one refreshes the payroll line.
type QueueDispatcher struct{}

func (QueueDispatcher) EventRecorded(event entities.AttendanceEvent) error {
	streamPayload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	TaskQueue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandleAttendanceStreamTaskName,
		Payload:  streamPayload,
		Priority: mq_types.High,
	})

	payrollPayload, err := json.Marshal(queue_tasks.PayrollExportPayload{
		EmployeeID: event.EmployeeID,
		Day:        event.Timestamp,
	})
	if err != nil {
		return err
	}
	TaskQueue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandlePayrollExportTaskName,
		Payload:  payrollPayload,
		Priority: mq_types.Low,
	})

	logger.Info("attendance event queued for stream and payroll", logger.LoggerOptions{
		Key:  "eventID",
		Data: event.ID,
	})
	return nil
}
