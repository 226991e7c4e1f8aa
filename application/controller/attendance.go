package controller

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "presenca.io/application/appErrors"
	"presenca.io/application/interfaces"
	"presenca.io/application/usecases/attendance"
	"presenca.io/infrastructure/database/repository/cache"
	queue_tasks "presenca.io/infrastructure/message_queue/tasks"
	server_response "presenca.io/infrastructure/serverResponse"
)

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", raw, time.Local)
}

// GetEmployeeAttendance lists an employee's events over a date range,
// defaulting to today.
func GetEmployeeAttendance(ctx *interfaces.ApplicationContext[any]) {
	employeeID := ctx.Param("id")

	from, err := parseDay(ctx.Query("from"))
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid from date, expected YYYY-MM-DD", nil, nil)
		return
	}
	to, err := parseDay(ctx.Query("to"))
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid to date, expected YYYY-MM-DD", nil, nil)
		return
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)

	events, err := attendance.EventsForEmployee(ctx.Ctx.Request.Context(), employeeID, from, to)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "attendance events retrieved", events, nil, nil)
}

// GetDayAttendance lists every event on one calendar day across the
// whole site.
func GetDayAttendance(ctx *interfaces.ApplicationContext[any]) {
	day, err := parseDay(ctx.Query("day"))
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid day, expected YYYY-MM-DD", nil, nil)
		return
	}

	events, err := attendance.EventsForDay(ctx.Ctx.Request.Context(), day)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "attendance events retrieved", events, nil, nil)
}

// GetPayrollSummary returns the cached payroll line for an employee
// day. Lines are recomputed in the background after every clock event.
func GetPayrollSummary(ctx *interfaces.ApplicationContext[any]) {
	employeeID := ctx.Param("id")
	day, err := parseDay(ctx.Query("day"))
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid day, expected YYYY-MM-DD", nil, nil)
		return
	}

	cached := cache.Cache.FindOne(queue_tasks.PayrollSummaryKey(employeeID, day))
	if cached == nil {
		apperrors.NotFoundError(ctx.Ctx, "no payroll line for that day yet")
		return
	}
	var summary queue_tasks.PayrollDaySummary
	if err := json.Unmarshal([]byte(*cached), &summary); err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "payroll summary retrieved", summary, nil, nil)
}
