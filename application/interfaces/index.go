package interfaces

import "github.com/gin-gonic/gin"

// ApplicationContext carries a parsed request body and the calling
// device through the controller layer.
type ApplicationContext[T any] struct {
	Ctx      *gin.Context
	Body     *T
	DeviceID string
}

func (appCtx *ApplicationContext[T]) GetHeader(key string) string {
	return appCtx.Ctx.GetHeader(key)
}

func (appCtx *ApplicationContext[T]) Query(key string) string {
	return appCtx.Ctx.Query(key)
}

func (appCtx *ApplicationContext[T]) Param(key string) string {
	return appCtx.Ctx.Param(key)
}
