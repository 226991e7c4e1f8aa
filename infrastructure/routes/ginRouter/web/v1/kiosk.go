package routev1

import (
	"github.com/gin-gonic/gin"

	apperrors "presenca.io/application/appErrors"
	"presenca.io/application/controller"
	"presenca.io/application/controller/dto"
	"presenca.io/application/interfaces"
)

func KioskRouter(router *gin.RouterGroup) {
	kioskRouter := router.Group("/kiosk")
	{
		kioskRouter.POST("/cycle", func(ctx *gin.Context) {
			var body dto.ProcessCyclePayload
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.ProcessKioskCycle(&interfaces.ApplicationContext[dto.ProcessCyclePayload]{
				Ctx:      ctx,
				Body:     &body,
				DeviceID: body.DeviceID,
			})
		})

		kioskRouter.POST("/devices", func(ctx *gin.Context) {
			var body dto.RegisterDevicePayload
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.RegisterKioskDevice(&interfaces.ApplicationContext[dto.RegisterDevicePayload]{
				Ctx:      ctx,
				Body:     &body,
				DeviceID: body.DeviceID,
			})
		})

		kioskRouter.GET("/devices/:deviceID", func(ctx *gin.Context) {
			controller.GetKioskDevice(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})

		kioskRouter.POST("/devices/:deviceID/reset", func(ctx *gin.Context) {
			controller.ResetKioskDevice(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})
	}
}
