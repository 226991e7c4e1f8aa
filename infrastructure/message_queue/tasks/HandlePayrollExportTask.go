package queue_tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"presenca.io/application/repository"
	"presenca.io/entities"
	"presenca.io/infrastructure/database/repository/cache"
	"presenca.io/infrastructure/logger"
	mq_types "presenca.io/infrastructure/message_queue/types"
)

var HandlePayrollExportTaskName mq_types.Queues = "export_payroll_day"

const payrollSummaryTTL = time.Hour * 24 * 35

type PayrollExportPayload struct {
	EmployeeID string
	Day        time.Time
}

// PayrollDaySummary is the per-employee day line the payroll system
// reads. Worked minutes only exist once the day holds both punches.
type PayrollDaySummary struct {
	EmployeeID      string    `json:"employeeID"`
	Day             string    `json:"day"`
	ClockIn         time.Time `json:"clockIn"`
	ClockOut        time.Time `json:"clockOut"`
	WorkedMinutes   int       `json:"workedMinutes"`
	IsLate          bool      `json:"isLate"`
	IsEarlyLeave    bool      `json:"isEarlyLeave"`
	OvertimeMinutes int       `json:"overtimeMinutes"`
	Complete        bool      `json:"complete"`
}

// HandlePayrollExportTask recomputes the payroll line for one employee
// day and caches it for the export endpoint. It runs after each clock
// event, so a day's line converges as its punches land.
func HandlePayrollExportTask(ctx context.Context, t *asynq.Task) error {
	var payload PayrollExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("an error occured while unmarshalling payroll export payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}

	dayStart := time.Date(payload.Day.Year(), payload.Day.Month(), payload.Day.Day(), 0, 0, 0, 0, payload.Day.Location())
	events, err := repository.AttendanceEventRepo().FindMany(ctx, map[string]interface{}{
		"employeeID": payload.EmployeeID,
		"timestamp": map[string]interface{}{
			"$gte": dayStart,
			"$lt":  dayStart.AddDate(0, 0, 1),
		},
	})
	if err != nil {
		return err
	}

	summary := PayrollDaySummary{
		EmployeeID: payload.EmployeeID,
		Day:        dayStart.Format("2006-01-02"),
	}
	for _, event := range *events {
		switch event.Type {
		case entities.ClockIn:
			summary.ClockIn = event.Timestamp
			summary.IsLate = event.IsLate
		case entities.ClockOut:
			summary.ClockOut = event.Timestamp
			summary.IsEarlyLeave = event.IsEarlyLeave
			summary.OvertimeMinutes = event.OvertimeMinutes
		}
	}
	if !summary.ClockIn.IsZero() && !summary.ClockOut.IsZero() {
		summary.Complete = true
		summary.WorkedMinutes = int(summary.ClockOut.Sub(summary.ClockIn).Minutes())
	}

	encoded, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	cache.Cache.CreateEntry(PayrollSummaryKey(payload.EmployeeID, dayStart), string(encoded), payrollSummaryTTL)
	return nil
}

func PayrollSummaryKey(employeeID string, day time.Time) string {
	return fmt.Sprintf("payroll:%s:%s", employeeID, day.Format("2006-01-02"))
}
