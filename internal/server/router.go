package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ekalavya-cmd/studbud-backend/internal/handlers"
	"github.com/ekalavya-cmd/studbud-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins    string
	UserDataHandler   *handlers.UserDataHandler
	PlannerHandler    *handlers.PlannerHandler
	SuggestionHandler *handlers.SuggestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())

	// Cors
	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/ai-suggestion", cfg.SuggestionHandler.Suggest)

		user := api.Group("/user/:userId")
		{
			user.GET("", cfg.UserDataHandler.GetUserData)
			user.POST("", cfg.UserDataHandler.SaveUserData)

			user.POST("/tasks", cfg.PlannerHandler.AddTask)
			user.DELETE("/tasks/:taskId", cfg.PlannerHandler.DeleteTask)
			user.POST("/tasks/:taskId/toggle", cfg.PlannerHandler.ToggleTask)

			user.POST("/study-hours", cfg.PlannerHandler.LogStudyHours)
			user.POST("/study-hours/deduct", cfg.PlannerHandler.DeductStudyHours)

			user.POST("/themes/redeem", cfg.PlannerHandler.RedeemTheme)
			user.POST("/themes/current", cfg.PlannerHandler.SetCurrentTheme)
		}
	}

	return router
}
