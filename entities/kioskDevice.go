package entities

import (
	"time"

	"presenca.io/application/utils"
)

// KioskDevice is one attendance terminal and its operator-tunable gate
// configuration.
type KioskDevice struct {
	DeviceID             string    `bson:"deviceID" json:"deviceID" validate:"required"`
	Label                string    `bson:"label" json:"label"`
	SpoofThreshold       float64   `bson:"spoofThreshold" json:"spoofThreshold" validate:"omitempty,spoof_threshold"`
	RemoteScoringEnabled bool      `bson:"remoteScoringEnabled" json:"remoteScoringEnabled"`
	LastSeen             time.Time `bson:"lastSeen" json:"lastSeen"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model KioskDevice) ParseModel() any {
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
