package controller

import (
	"net/http"
	"time"

	apperrors "presenca.io/application/appErrors"
	"presenca.io/application/controller/dto"
	"presenca.io/application/interfaces"
	"presenca.io/application/repository"
	"presenca.io/entities"
	server_response "presenca.io/infrastructure/serverResponse"
	"presenca.io/infrastructure/validator"
)

// EnrolEmployee creates an employee with their first descriptor
// samples. The embedded matcher sees them on its next population scan.
func EnrolEmployee(ctx *interfaces.ApplicationContext[dto.EnrolEmployeePayload]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	reqCtx := ctx.Ctx.Request.Context()
	if ctx.Body.ShiftID != "" {
		shift, err := repository.ShiftRepo().FindOneByID(reqCtx, ctx.Body.ShiftID)
		if err != nil {
			apperrors.FatalServerError(ctx.Ctx, err)
			return
		}
		if shift == nil {
			apperrors.NotFoundError(ctx.Ctx, "shift not found")
			return
		}
	}

	if ctx.Body.BadgeNumber != "" {
		existing, err := repository.EmployeeRepo().FindOneByFilter(reqCtx, map[string]interface{}{
			"badgeNumber": ctx.Body.BadgeNumber,
		})
		if err != nil {
			apperrors.FatalServerError(ctx.Ctx, err)
			return
		}
		if existing != nil {
			apperrors.EntityAlreadyExistsError(ctx.Ctx, "an employee with this badge number already exists")
			return
		}
	}

	descriptors := make([]entities.DescriptorSample, 0, len(ctx.Body.Descriptors))
	now := time.Now()
	for _, sample := range ctx.Body.Descriptors {
		descriptors = append(descriptors, entities.DescriptorSample{
			Vector:     sample.Vector,
			EnrolledAt: now,
			DeviceID:   sample.DeviceID,
		})
	}

	employee, err := repository.EmployeeRepo().CreateOne(reqCtx, entities.Employee{
		FirstName:   ctx.Body.FirstName,
		LastName:    ctx.Body.LastName,
		BadgeNumber: ctx.Body.BadgeNumber,
		Email:       ctx.Body.Email,
		ShiftID:     ctx.Body.ShiftID,
		Descriptors: descriptors,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "employee enrolled", employee, nil, nil)
}

// AddEmployeeDescriptor appends another enrolled sample, typically a
// new angle captured at a kiosk.
func AddEmployeeDescriptor(ctx *interfaces.ApplicationContext[dto.AddDescriptorPayload]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	employeeID := ctx.Param("id")

	reqCtx := ctx.Ctx.Request.Context()
	employee, err := repository.EmployeeRepo().FindOneByID(reqCtx, employeeID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if employee == nil {
		apperrors.NotFoundError(ctx.Ctx, "employee not found")
		return
	}

	_, err = repository.EmployeeRepo().PushToArray(reqCtx, employeeID, "descriptors", entities.DescriptorSample{
		Vector:     ctx.Body.Descriptor.Vector,
		EnrolledAt: time.Now(),
		DeviceID:   ctx.Body.Descriptor.DeviceID,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "descriptor added", nil, nil, nil)
}

// DeactivateEmployee removes an employee from the matcher population
// without deleting their history.
func DeactivateEmployee(ctx *interfaces.ApplicationContext[any]) {
	employeeID := ctx.Param("id")
	updated, err := repository.EmployeeRepo().UpdatePartialByID(ctx.Ctx.Request.Context(), employeeID, map[string]interface{}{
		"deactivated": true,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if updated == 0 {
		apperrors.NotFoundError(ctx.Ctx, "employee not found")
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "employee deactivated", nil, nil, nil)
}

// CreateShift registers a work window employees can be assigned to.
func CreateShift(ctx *interfaces.ApplicationContext[dto.CreateShiftPayload]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	graceMinutes := 5
	if ctx.Body.GraceMinutes != nil {
		graceMinutes = *ctx.Body.GraceMinutes
	}
	overtimeThreshold := 15
	if ctx.Body.OvertimeThresholdMinutes != nil {
		overtimeThreshold = *ctx.Body.OvertimeThresholdMinutes
	}

	shift, err := repository.ShiftRepo().CreateOne(ctx.Ctx.Request.Context(), entities.Shift{
		Name:                     ctx.Body.Name,
		Start:                    ctx.Body.Start,
		End:                      ctx.Body.End,
		GraceMinutes:             graceMinutes,
		OvertimeThresholdMinutes: overtimeThreshold,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "shift created", shift, nil, nil)
}
