package entities

import (
	"time"

	"presenca.io/application/utils"
)

// Shift is a configured work window. Start and End are wall-clock
// strings ("09:00") interpreted in the kiosk's local day.
type Shift struct {
	Name                     string `bson:"name" json:"name" validate:"required"`
	Start                    string `bson:"start" json:"start" validate:"shift_time"`
	End                      string `bson:"end" json:"end" validate:"shift_time"`
	GraceMinutes             int    `bson:"graceMinutes" json:"graceMinutes"`
	OvertimeThresholdMinutes int    `bson:"overtimeThresholdMinutes" json:"overtimeThresholdMinutes"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StartOn anchors the shift start to the calendar day of ts.
func (model Shift) StartOn(ts time.Time) time.Time {
	return anchorClock(model.Start, ts)
}

// EndOn anchors the shift end to the calendar day of ts.
func (model Shift) EndOn(ts time.Time) time.Time {
	return anchorClock(model.End, ts)
}

func anchorClock(clock string, ts time.Time) time.Time {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return ts
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), parsed.Hour(), parsed.Minute(), 0, 0, ts.Location())
}

func (model Shift) ParseModel() any {
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
