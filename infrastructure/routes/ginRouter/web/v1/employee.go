package routev1

import (
	"github.com/gin-gonic/gin"

	apperrors "presenca.io/application/appErrors"
	"presenca.io/application/controller"
	"presenca.io/application/controller/dto"
	"presenca.io/application/interfaces"
)

func EmployeeRouter(router *gin.RouterGroup) {
	employeeRouter := router.Group("/employees")
	{
		employeeRouter.POST("", func(ctx *gin.Context) {
			var body dto.EnrolEmployeePayload
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.EnrolEmployee(&interfaces.ApplicationContext[dto.EnrolEmployeePayload]{
				Ctx:  ctx,
				Body: &body,
			})
		})

		employeeRouter.POST("/:id/descriptors", func(ctx *gin.Context) {
			var body dto.AddDescriptorPayload
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.AddEmployeeDescriptor(&interfaces.ApplicationContext[dto.AddDescriptorPayload]{
				Ctx:  ctx,
				Body: &body,
			})
		})

		employeeRouter.PATCH("/:id/deactivate", func(ctx *gin.Context) {
			controller.DeactivateEmployee(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})
	}

	shiftRouter := router.Group("/shifts")
	{
		shiftRouter.POST("", func(ctx *gin.Context) {
			var body dto.CreateShiftPayload
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CreateShift(&interfaces.ApplicationContext[dto.CreateShiftPayload]{
				Ctx:  ctx,
				Body: &body,
			})
		})
	}
}
