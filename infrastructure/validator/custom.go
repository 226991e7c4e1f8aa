package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// shift boundaries are stored as wall-clock strings ("09:00")
func validateShiftTime(fl validator.FieldLevel) bool {
	_, err := time.Parse("15:04", fl.Field().String())
	return err == nil
}

// the operator-facing anti-spoof threshold is only meaningful in 40-95
func validateSpoofThreshold(fl validator.FieldLevel) bool {
	value := fl.Field().Float()
	return value >= 40 && value <= 95
}
