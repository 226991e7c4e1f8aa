package entities

import (
	"time"

	"presenca.io/application/utils"
)

// DescriptorSample is one enrolled embedding for an employee. Multiple
// samples per employee (different angles) sharpen the embedded matcher.
type DescriptorSample struct {
	Vector     []float64 `bson:"vector" json:"vector"`
	EnrolledAt time.Time `bson:"enrolledAt" json:"enrolledAt"`
	DeviceID   string    `bson:"deviceID" json:"deviceID"`
}

type Employee struct {
	FirstName   string             `bson:"firstName" json:"firstName" validate:"required"`
	LastName    string             `bson:"lastName" json:"lastName" validate:"required"`
	BadgeNumber string             `bson:"badgeNumber" json:"badgeNumber"`
	Email       *string            `bson:"email" json:"email,omitempty"`
	ShiftID     string             `bson:"shiftID" json:"shiftID"`
	Descriptors []DescriptorSample `bson:"descriptors" json:"-"`
	Deactivated bool               `bson:"deactivated" json:"deactivated"`

	ID        string     `bson:"_id" json:"id"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt"`
}

func (model Employee) FullName() string {
	return model.FirstName + " " + model.LastName
}

func (model Employee) ParseModel() any {
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
