package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"presenca.io/application/repository"
	"presenca.io/entities"
	"presenca.io/infrastructure/database/repository/mongo"
)

// MongoEventStore is the production EventStore over the attendance
// collection.
type MongoEventStore struct{}

func (MongoEventStore) CountForWindow(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	return repository.AttendanceEventRepo().CountDocs(ctx, map[string]interface{}{
		"employeeID": employeeID,
		"timestamp": map[string]interface{}{
			"$gte": from,
			"$lt":  to,
		},
	})
}

func (MongoEventStore) Save(ctx context.Context, event entities.AttendanceEvent) (*entities.AttendanceEvent, error) {
	return repository.AttendanceEventRepo().CreateOne(ctx, event)
}

// EmployeeShiftSource resolves an employee's assigned shift through the
// employee record.
type EmployeeShiftSource struct{}

func (EmployeeShiftSource) ShiftFor(ctx context.Context, employeeID string) (*entities.Shift, error) {
	employee, err := repository.EmployeeRepo().FindOneByID(ctx, employeeID)
	if err != nil {
		return nil, errors.Wrap(err, "loading employee")
	}
	if employee == nil || employee.ShiftID == "" {
		return nil, nil
	}
	shift, err := repository.ShiftRepo().FindOneByID(ctx, employee.ShiftID)
	if err != nil {
		return nil, errors.Wrap(err, "loading shift")
	}
	return shift, nil
}

func newestFirst() mongo.FindOptions {
	sort := interface{}(map[string]interface{}{"timestamp": -1})
	return mongo.FindOptions{Sort: &sort}
}

// EventsForEmployee lists an employee's events in a window, newest
// first, for the review endpoints.
func EventsForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]entities.AttendanceEvent, error) {
	filter := map[string]interface{}{
		"employeeID": employeeID,
		"timestamp": map[string]interface{}{
			"$gte": from,
			"$lt":  to,
		},
	}
	events, err := repository.AttendanceEventRepo().FindMany(ctx, filter, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance events")
	}
	if events == nil {
		return nil, nil
	}
	return *events, nil
}

// EventsForDay lists every event on the calendar day containing ts.
func EventsForDay(ctx context.Context, ts time.Time) ([]entities.AttendanceEvent, error) {
	from, to := dayBounds(ts)
	filter := map[string]interface{}{
		"timestamp": map[string]interface{}{
			"$gte": from,
			"$lt":  to,
		},
	}
	events, err := repository.AttendanceEventRepo().FindMany(ctx, filter, newestFirst())
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance events")
	}
	if events == nil {
		return nil, nil
	}
	return *events, nil
}
