package dto

type DescriptorSamplePayload struct {
	Vector   []float64 `json:"vector" validate:"required,min=8"`
	DeviceID string    `json:"deviceID" validate:"max=100"`
}

type EnrolEmployeePayload struct {
	FirstName   string                    `json:"firstName" validate:"required,max=100"`
	LastName    string                    `json:"lastName" validate:"required,max=100"`
	BadgeNumber string                    `json:"badgeNumber" validate:"max=50"`
	Email       *string                   `json:"email" validate:"omitempty,email"`
	ShiftID     string                    `json:"shiftID" validate:"max=100"`
	Descriptors []DescriptorSamplePayload `json:"descriptors" validate:"required,min=1,dive"`
}

type AddDescriptorPayload struct {
	Descriptor DescriptorSamplePayload `json:"descriptor" validate:"required"`
}

// CreateShiftPayload uses pointers for the minute knobs so an omitted
// field takes the default (5 grace, 15 overtime) while an explicit 0
// stays 0.
type CreateShiftPayload struct {
	Name                     string `json:"name" validate:"required,max=100"`
	Start                    string `json:"start" validate:"required,shift_time"`
	End                      string `json:"end" validate:"required,shift_time"`
	GraceMinutes             *int   `json:"graceMinutes" validate:"omitempty,min=0,max=240"`
	OvertimeThresholdMinutes *int   `json:"overtimeThresholdMinutes" validate:"omitempty,min=0,max=720"`
}
