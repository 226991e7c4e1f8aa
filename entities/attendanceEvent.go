package entities

import (
	"time"

	"presenca.io/application/utils"
)

type AttendanceEventType string

const (
	ClockIn  AttendanceEventType = "IN"
	ClockOut AttendanceEventType = "OUT"
)

// AttendanceEvent is a confirmed clock event. Exactly one is created
// per accepted match; a workday holds at most one IN and one OUT.
type AttendanceEvent struct {
	EmployeeID      string              `bson:"employeeID" json:"employeeID"`
	DetectedName    string              `bson:"detectedName" json:"detectedName"`
	Type            AttendanceEventType `bson:"type" json:"type"`
	Timestamp       time.Time           `bson:"timestamp" json:"timestamp"`
	DeviceID        string              `bson:"deviceID" json:"deviceID"`
	MatchDistance   float64             `bson:"matchDistance" json:"matchDistance"`
	IsLate          bool                `bson:"isLate" json:"isLate"`
	IsEarlyLeave    bool                `bson:"isEarlyLeave" json:"isEarlyLeave"`
	IsOvertime      bool                `bson:"isOvertime" json:"isOvertime"`
	OvertimeMinutes int                 `bson:"overtimeMinutes" json:"overtimeMinutes"`
	// DayFinished marks the event that completed the workday.
	DayFinished bool    `bson:"dayFinished" json:"dayFinished"`
	FrameImage  *string `bson:"frameImage,omitempty" json:"-"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model AttendanceEvent) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateULIDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
