package routev1

import (
	"github.com/gin-gonic/gin"

	"presenca.io/application/controller"
	"presenca.io/application/interfaces"
)

func AttendanceRouter(router *gin.RouterGroup) {
	attendanceRouter := router.Group("/attendance")
	{
		attendanceRouter.GET("/employees/:id", func(ctx *gin.Context) {
			controller.GetEmployeeAttendance(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})

		attendanceRouter.GET("/employees/:id/payroll", func(ctx *gin.Context) {
			controller.GetPayrollSummary(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})

		attendanceRouter.GET("/day", func(ctx *gin.Context) {
			controller.GetDayAttendance(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})
	}
}
