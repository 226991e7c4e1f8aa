package controller

import (
	"net/http"
	"time"

	apperrors "presenca.io/application/appErrors"
	"presenca.io/application/controller/dto"
	"presenca.io/application/interfaces"
	"presenca.io/application/repository"
	"presenca.io/application/services/kiosk"
	"presenca.io/entities"
	server_response "presenca.io/infrastructure/serverResponse"
	"presenca.io/infrastructure/validator"
)

// KioskService is wired at startup.
var KioskService *kiosk.Service

// ProcessKioskCycle runs one pushed detection cycle through the
// device's gate and tells the kiosk what to display next.
func ProcessKioskCycle(ctx *interfaces.ApplicationContext[dto.ProcessCyclePayload]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	frame, err := ctx.Body.Frame()
	if err != nil {
		apperrors.ClientError(ctx.Ctx, "invalid image format", nil, nil)
		return
	}

	response, err := KioskService.ProcessCycle(ctx.Ctx.Request.Context(), kiosk.CycleInput{
		DeviceID:   ctx.Body.DeviceID,
		Frame:      frame,
		Detections: ctx.Body.ParsedDetections(),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "cycle processed", response, nil, nil)
}

// ResetKioskDevice drops a device's gate state.
func ResetKioskDevice(ctx *interfaces.ApplicationContext[any]) {
	deviceID := ctx.Param("deviceID")
	if deviceID == "" {
		apperrors.ClientError(ctx.Ctx, "deviceID is required", nil, nil)
		return
	}
	KioskService.ResetDevice(deviceID)
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "device reset", nil, nil, nil)
}

// GetKioskDevice returns a device's registered gate configuration.
func GetKioskDevice(ctx *interfaces.ApplicationContext[any]) {
	deviceID := ctx.Param("deviceID")
	device, err := repository.KioskDeviceRepo().FindOneByFilter(ctx.Ctx.Request.Context(), map[string]interface{}{
		"deviceID": deviceID,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if device == nil {
		apperrors.NotFoundError(ctx.Ctx, "device not found")
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "device retrieved", device, nil, nil)
}

// RegisterKioskDevice registers or updates a kiosk in the device
// registry.
func RegisterKioskDevice(ctx *interfaces.ApplicationContext[dto.RegisterDevicePayload]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	existing, err := repository.KioskDeviceRepo().FindOneByFilter(ctx.Ctx.Request.Context(), map[string]interface{}{
		"deviceID": ctx.Body.DeviceID,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if existing != nil {
		_, err = repository.KioskDeviceRepo().UpdatePartialByID(ctx.Ctx.Request.Context(), existing.ID, map[string]interface{}{
			"label":                ctx.Body.Label,
			"spoofThreshold":       ctx.Body.SpoofThreshold,
			"remoteScoringEnabled": ctx.Body.RemoteScoringEnabled,
			"lastSeen":             time.Now(),
		})
		if err != nil {
			apperrors.FatalServerError(ctx.Ctx, err)
			return
		}
		KioskService.ResetDevice(ctx.Body.DeviceID)
		server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "device updated", nil, nil, nil)
		return
	}

	device, err := repository.KioskDeviceRepo().CreateOne(ctx.Ctx.Request.Context(), entities.KioskDevice{
		DeviceID:             ctx.Body.DeviceID,
		Label:                ctx.Body.Label,
		SpoofThreshold:       ctx.Body.SpoofThreshold,
		RemoteScoringEnabled: ctx.Body.RemoteScoringEnabled,
		LastSeen:             time.Now(),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "device registered", device, nil, nil)
}
