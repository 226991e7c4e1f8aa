package infrastructure

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"presenca.io/infrastructure/logger"
	ratelimit "presenca.io/infrastructure/ratelimit"
	webRoutev1 "presenca.io/infrastructure/routes/ginRouter/web/v1"
	startup "presenca.io/infrastructure/startUp"
)

type ginServer struct{}

func (s *ginServer) Start() {
	startup.StartServices()
	defer startup.CleanUpServices()

	server := gin.Default()

	origins := []string{"http://localhost:5174"}
	if configured := os.Getenv("ALLOWED_ORIGINS"); configured != "" {
		origins = strings.Split(configured, ",")
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))
	server.Use(ratelimit.TokenBucketPerIP())
	// pushed cycle payloads carry a frame image
	server.MaxMultipartMemory = 15 << 20

	routerV1 := server.Group("/api/v1")
	{
		webRoutev1.KioskRouter(routerV1)
		webRoutev1.EmployeeRouter(routerV1)
		webRoutev1.AttendanceRouter(routerV1)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, map[string]string{
			"message": "pong",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server starting", logger.LoggerOptions{
		Key:  "port",
		Data: port,
	})
	if err := server.Run(fmt.Sprintf(":%s", port)); err != nil {
		logger.Error("server exited", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
	}
}
